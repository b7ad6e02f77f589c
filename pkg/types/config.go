package types

import (
	"errors"
	"net/url"
	"slices"
	"time"
)

// Config holds the client parameters shared by the CLI verbs and the
// terminal UI.
type Config struct {
	BaseURL        string        `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	PageSize       int           `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
	LookupPageSize int           `json:"lookup_page_size" yaml:"lookup_page_size" mapstructure:"lookup_page_size"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`
	NotifyTimeout  time.Duration `json:"notify_timeout" yaml:"notify_timeout" mapstructure:"notify_timeout"`
	LogFile        string        `json:"log_file" yaml:"log_file" mapstructure:"log_file"`
	LogLevel       string        `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Serve          ServeConfig   `json:"serve" yaml:"serve" mapstructure:"serve"`
}

// ServeConfig configures the stub backend started by "ttadmin serve".
type ServeConfig struct {
	Addr     string `json:"addr" yaml:"addr" mapstructure:"addr"`
	Database string `json:"database" yaml:"database" mapstructure:"database"`
	Seed     bool   `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// Config validation errors.
var (
	ErrBaseURLEmpty         = errors.New("base_url must not be empty")
	ErrBaseURLInvalid       = errors.New("base_url must be an absolute http(s) URL")
	ErrPageSizeInvalid      = errors.New("page_size must be one of 5, 10, 20")
	ErrLookupPageSize       = errors.New("lookup_page_size must be positive")
	ErrNotifyTimeoutInvalid = errors.New("notify_timeout must be positive")
)

var logLevels = []string{"debug", "info", "warn", "error"}

// ErrLogLevelUnknown is returned for a log_level outside debug/info/warn/error.
var ErrLogLevelUnknown = errors.New("unknown log level")

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLEmpty
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrBaseURLInvalid
	}
	if !slices.Contains(PageSizeOptions, c.PageSize) {
		return ErrPageSizeInvalid
	}
	if c.LookupPageSize <= 0 {
		return ErrLookupPageSize
	}
	if c.NotifyTimeout <= 0 {
		return ErrNotifyTimeoutInvalid
	}
	if c.LogLevel != "" && !slices.Contains(logLevels, c.LogLevel) {
		return ErrLogLevelUnknown
	}
	return nil
}
