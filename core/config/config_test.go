package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simplecdn/core/config"
)

type cachedConfig struct {
	Root string `env:"CONFIG_TEST_CACHED_ROOT" envDefault:"/data"`
}

type parsedConfig struct {
	Hosts   []string      `env:"CONFIG_TEST_HOSTS" envSeparator:","`
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"5s"`
	Size    int64         `env:"CONFIG_TEST_SIZE" envDefault:"1024"`
}

type requiredConfig struct {
	Secret string `env:"CONFIG_TEST_REQUIRED_SECRET,required"`
}

func TestParse(t *testing.T) {
	t.Setenv("CONFIG_TEST_HOSTS", "cdn.example.com,localhost")
	t.Setenv("CONFIG_TEST_TIMEOUT", "1m")

	var cfg parsedConfig
	require.NoError(t, config.Parse(&cfg))

	assert.Equal(t, []string{"cdn.example.com", "localhost"}, cfg.Hosts)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, int64(1024), cfg.Size)
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("CONFIG_TEST_CACHED_ROOT", "/srv/files")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "/srv/files", first.Root)

	t.Setenv("CONFIG_TEST_CACHED_ROOT", "/changed")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "/srv/files", second.Root)
}

func TestLoadRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)

	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })
}

func TestNilConfig(t *testing.T) {
	t.Parallel()

	var cfg *parsedConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilConfig)
	assert.ErrorIs(t, config.Parse(cfg), config.ErrNilConfig)
}
