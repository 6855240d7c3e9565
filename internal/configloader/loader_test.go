package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Service struct {
		Name  string `yaml:"name"`
		Port  int    `env:"TEST_LOADER_PORT" yaml:"port"`
		Debug bool   `env:"TEST_LOADER_DEBUG" yaml:"debug"`
	} `yaml:"service"`
	Hosts []string `env:"TEST_LOADER_HOSTS" yaml:"hosts"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAMLOnly(t *testing.T) {
	path := writeConfig(t, "service:\n  name: demo\n  port: 8080\n")

	cfg, err := Load[testConfig](path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Service.Name)
	assert.Equal(t, 8080, cfg.Service.Port)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("TEST_LOADER_PORT", "9999")
	t.Setenv("TEST_LOADER_DEBUG", "true")
	t.Setenv("TEST_LOADER_HOSTS", "a.example.com, b.example.com")

	path := writeConfig(t, "service:\n  name: demo\n  port: 8080\n")

	cfg, err := Load[testConfig](path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Service.Port)
	assert.True(t, cfg.Service.Debug)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, cfg.Hosts)
}

func TestLoadWithDefaults_EnvWinsOverDefaults(t *testing.T) {
	t.Setenv("TEST_LOADER_PORT", "7777")

	path := writeConfig(t, "service:\n  name: demo\n")

	cfg, err := LoadWithDefaults[testConfig](path, func(c *testConfig) {
		if c.Service.Port == 0 {
			c.Service.Port = 1234
		}
	})
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Service.Port)
}

func TestLoadWithDefaults_DefaultsFillGaps(t *testing.T) {
	path := writeConfig(t, "service:\n  name: demo\n")

	cfg, err := LoadWithDefaults[testConfig](path, func(c *testConfig) {
		if c.Service.Port == 0 {
			c.Service.Port = 1234
		}
	})
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.Service.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load[testConfig](filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "config.yml", Path("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/capture/config.yml")
	assert.Equal(t, "/etc/capture/config.yml", Path("config.yml"))
}
