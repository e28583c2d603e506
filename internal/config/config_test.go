package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "development", Timezone: "UTC"},
		Logger:    LoggerConfig{Level: "info"},
		Data:      DataConfig{BasePath: "/some/path"},
		Auth:      AuthConfig{AccessTokenDuration: time.Hour},
		RateLimit: RateLimitConfig{AuthPerMinute: 20, AuthBurst: 10},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
		cfg := validConfig()
		cfg.Logger.Level = level
		assert.NoError(t, cfg.Validate(), level)
	}

	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_Timezone(t *testing.T) {
	cfg := validConfig()
	cfg.App.Timezone = "Europe/Berlin"
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	cfg.App.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data base path")
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.AuthBurst = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"ENV", "TZ", "LOG_LEVEL", "DATA_PATH", "SERVER_PORT", "ALLOWED_ORIGINS", "ACCESS_TOKEN_KEY", "ACCESS_TOKEN_DURATION"} {
		t.Setenv(key, "")
	}

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 20, cfg.RateLimit.AuthPerMinute)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.True(t, filepath.IsAbs(cfg.Data.BasePath))
	assert.Equal(t, filepath.Join(cfg.Data.BasePath, "db"), cfg.DatabasePath())
}

func TestLoad_FlagsBeatEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load([]string{
		"-port", "9100",
		"-data-path", dir,
		"-access-token-duration", "2h",
		"-env-file", filepath.Join(dir, "missing.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, dir, cfg.Data.BasePath)
	assert.Equal(t, 2*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := Load([]string{"-read-timeout", "soon", "-data-path", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read timeout")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/plants", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "plants"), got)

	got, err = expandPath("/abs/../abs/path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = expandPath("relative", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("ISTDURSTIG_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "ISTDURSTIG_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "ISTDURSTIG_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "ISTDURSTIG_UNSET_KEY", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("ISTDURSTIG_INT", "not-a-number")
	assert.Equal(t, 7, getIntConfigValue("", "ISTDURSTIG_INT", 7))
	assert.Equal(t, 3, getIntConfigValue(" 3", "ISTDURSTIG_INT", 7))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nISTDURSTIG_A=plain\nISTDURSTIG_B = \"quoted value\"\nISTDURSTIG_C=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ISTDURSTIG_A", "")
	t.Setenv("ISTDURSTIG_B", "")
	t.Setenv("ISTDURSTIG_C", "from-env")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "plain", os.Getenv("ISTDURSTIG_A"))
	assert.Equal(t, "quoted value", os.Getenv("ISTDURSTIG_B"))
	assert.Equal(t, "from-env", os.Getenv("ISTDURSTIG_C"), "existing env vars win")
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))

	err := loadEnvFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}
