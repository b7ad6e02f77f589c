// Package config loads ttadmin's config.yaml with viper. Values come from,
// in increasing precedence: built-in defaults, config.yaml, TTADMIN_*
// environment variables, and explicit overrides from command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

const (
	fileName = "config"
	fileType = "yaml"
	fileExt  = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TTADMIN_BASE_URL.
	EnvPrefix = "TTADMIN"
)

// Config keys.
const (
	KeyBaseURL        = "base_url"
	KeyPageSize       = "page_size"
	KeyLookupPageSize = "lookup_page_size"
	KeyRequestTimeout = "request_timeout"
	KeyNotifyTimeout  = "notify_timeout"
	KeyLogFile        = "log_file"
	KeyLogLevel       = "log_level"
	KeyServeAddr      = "serve.addr"
	KeyServeDatabase  = "serve.database"
	KeyServeSeed      = "serve.seed"
)

// Defaults returns the configuration used when nothing overrides it.
func Defaults() types.Config {
	return types.Config{
		BaseURL:        "http://localhost:8080",
		PageSize:       types.DefaultPageSize,
		LookupPageSize: types.DefaultLookupPageSize,
		RequestTimeout: 10 * time.Second,
		NotifyTimeout:  2 * time.Second,
		LogLevel:       "info",
		Serve: types.ServeConfig{
			Addr: ":8080",
			Seed: true,
		},
	}
}

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# ttadmin configuration
# Every key can also be set with a TTADMIN_ environment variable,
# e.g. TTADMIN_BASE_URL or TTADMIN_SERVE_ADDR.

# Travel-planning backend
base_url: http://localhost:8080

# Rows per grid page (5, 10 or 20) and options per lookup request
page_size: 5
lookup_page_size: 50

request_timeout: 10s
# How long an error toast stays on screen
notify_timeout: 2s

# The terminal UI writes its log here (default: no log)
# log_file:
log_level: info

# Stub backend started by "ttadmin serve"
serve:
  addr: ":8080"
  # database defaults to $XDG_DATA_HOME/ttadmin/ttadmin.db; ":memory:" keeps nothing
  # database:
  seed: true
`

// Load reads config.yaml from configDir, creating the directory and a
// default file on first run. overrides are applied last, keyed by the
// Key constants. The result is validated.
func Load(configDir string, overrides map[string]any) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v, Defaults())
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config %s: %w", Path(configDir), err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault(KeyBaseURL, d.BaseURL)
	v.SetDefault(KeyPageSize, d.PageSize)
	v.SetDefault(KeyLookupPageSize, d.LookupPageSize)
	v.SetDefault(KeyRequestTimeout, d.RequestTimeout)
	v.SetDefault(KeyNotifyTimeout, d.NotifyTimeout)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyServeAddr, d.Serve.Addr)
	v.SetDefault(KeyServeDatabase, d.Serve.Database)
	v.SetDefault(KeyServeSeed, d.Serve.Seed)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := Path(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Path returns the config.yaml path inside configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, fileExt)
}

// Render formats cfg as YAML, the way "config show" prints it.
func Render(cfg types.Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return out, nil
}
