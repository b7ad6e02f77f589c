package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/ttadmin", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "ttadmin"), got)
	})
}

func TestDefaultDataDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	got, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg-data/ttadmin", got)
}

func TestDefaultDirs_HomeFailure(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}
	saved := platformDir.homeDir
	platformDir.homeDir = func() (string, error) { return "", os.ErrNotExist }
	t.Cleanup(func() { platformDir.homeDir = saved })
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	_, err := DefaultConfigDir()
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = DefaultDataDir()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveConfigDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string // substring the result must contain
	}{
		{
			name:    "flag wins over env",
			flag:    "/explicit/config",
			envVal:  "/env/config",
			wantSub: "/explicit/config",
		},
		{
			name:    "env wins when flag empty",
			envVal:  "/env/config",
			wantSub: "/env/config",
		},
		{
			name:    "platform default when both empty",
			wantSub: "ttadmin",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveDatabase(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	tests := []struct {
		name        string
		flag        string
		configValue string
		envVal      string
		want        string
	}{
		{
			name:        "flag wins over all",
			flag:        "/flag/db.sqlite",
			configValue: "/config/db.sqlite",
			envVal:      "/env",
			want:        "/flag/db.sqlite",
		},
		{
			name:        "config wins over env",
			configValue: "/config/db.sqlite",
			envVal:      "/env",
			want:        "/config/db.sqlite",
		},
		{
			name:   "env names the data dir",
			envVal: "/env",
			want:   "/env/ttadmin.db",
		},
		{
			name: "XDG default when all empty",
			want: "/tmp/xdg-data/ttadmin/ttadmin.db",
		},
		{
			name:        "memory passes through",
			configValue: ":memory:",
			envVal:      "/env",
			want:        ":memory:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.envVal)
			t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
			got, err := ResolveDatabase(tt.flag, tt.configValue)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_AbsolutePath(t *testing.T) {
	t.Run("relative config flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative database becomes absolute", func(t *testing.T) {
		got, err := ResolveDatabase("", "relative/db.sqlite")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}
