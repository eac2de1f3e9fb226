package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mentorkit/pkg/config"
)

type defaultsConfig struct {
	Host   string `env:"CFGTEST_DEFAULT_HOST" envDefault:"localhost"`
	Port   int    `env:"CFGTEST_DEFAULT_PORT" envDefault:"587"`
	Secure bool   `env:"CFGTEST_DEFAULT_SECURE" envDefault:"true"`
}

type overrideConfig struct {
	Host string `env:"CFGTEST_OVERRIDE_HOST" envDefault:"localhost"`
	Port int    `env:"CFGTEST_OVERRIDE_PORT" envDefault:"587"`
}

type cachedConfig struct {
	Value string `env:"CFGTEST_CACHED"`
}

type requiredConfig struct {
	Value string `env:"CFGTEST_REQUIRED,required"`
}

type fileConfig struct {
	Value string `env:"CFGTEST_FROM_FILE"`
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("CFGTEST_DEFAULT_HOST")
	os.Unsetenv("CFGTEST_DEFAULT_PORT")
	os.Unsetenv("CFGTEST_DEFAULT_SECURE")

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 587, cfg.Port)
	assert.True(t, cfg.Secure)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CFGTEST_OVERRIDE_HOST", "smtp.example.com")
	t.Setenv("CFGTEST_OVERRIDE_PORT", "465")
	config.ResetCache()

	var cfg overrideConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "smtp.example.com", cfg.Host)
	assert.Equal(t, 465, cfg.Port)
}

func TestLoad_Cached(t *testing.T) {
	t.Setenv("CFGTEST_CACHED", "first")
	config.ResetCache()

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFGTEST_CACHED", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.ResetCache()
	var third cachedConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("CFGTEST_REQUIRED")

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	os.Unsetenv("CFGTEST_REQUIRED")
	config.ResetCache()

	var cfg requiredConfig
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_FROM_FILE=from_file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CFGTEST_FROM_FILE") })

	require.NoError(t, config.LoadEnv(path))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_file", cfg.Value)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}
