// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user directories.
const appName = "ttadmin"

// DatabaseFileName is the stub backend's database file inside the data dir.
const DatabaseFileName = "ttadmin.db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TTADMIN_CONFIG_DIR"
	EnvDataDir   = "TTADMIN_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/ttadmin (fallback ~/.config/ttadmin)
// macOS:   ~/Library/Application Support/ttadmin
// Windows: %APPDATA%/ttadmin
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/ttadmin (fallback ~/.local/share/ttadmin)
// macOS:   ~/Library/Application Support/ttadmin
// Windows: %APPDATA%/ttadmin
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > TTADMIN_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDatabase returns the stub backend database path following the
// precedence chain: flag > config value > TTADMIN_DATA_DIR env >
// DefaultDataDir(). The literal ":memory:" passes through untouched.
func ResolveDatabase(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue} {
		if v == ":memory:" {
			return v, nil
		}
		if v != "" {
			return filepath.Abs(v)
		}
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		dir, err := filepath.Abs(env)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, DatabaseFileName), nil
	}
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DatabaseFileName), nil
}
