package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, home, content string) string {
	t.Helper()

	dir := filepath.Join(home, ".config", "rnb")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RCT_METRO_PORT", "")

	cfg, err := Load(viper.New(), LoadOptions{Home: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, Config{
		MetroURL:         "http://localhost:8081",
		HandshakeTimeout: 5 * time.Second,
		Exec:             ExecConfig{Timeout: 10 * time.Second},
		Logs:             LogsConfig{Timeout: 5 * time.Second, MaxLogs: 100},
	}, cfg)
}

func TestLoadMetroPortAdjustsDefault(t *testing.T) {
	t.Setenv("RCT_METRO_PORT", "8088")

	cfg, err := Load(viper.New(), LoadOptions{Home: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8088", cfg.MetroURL)
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	path := writeConfigFile(t, home, `metro_url = "http://10.0.2.2:8081"
wait_for_app = "3s"

[exec]
timeout = "30s"

[logs]
max_logs = 25
`)

	cfg, err := Load(viper.New(), LoadOptions{Home: home})
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.2.2:8081", cfg.MetroURL)
	assert.Equal(t, 3*time.Second, cfg.WaitForApp)
	assert.Equal(t, 30*time.Second, cfg.Exec.Timeout)
	assert.Equal(t, 25, cfg.Logs.MaxLogs)
	assert.Equal(t, 5*time.Second, cfg.Logs.Timeout)
	assert.Equal(t, path, cfg.File)
}

func TestLoadPrecedenceFlagOverEnvOverFile(t *testing.T) {
	home := t.TempDir()
	writeConfigFile(t, home, `metro_url = "http://from-file:8081"

[exec]
timeout = "30s"

[logs]
max_logs = 25
`)
	t.Setenv("RNB_METRO_URL", "http://from-env:8081")
	t.Setenv("RNB_EXEC_TIMEOUT", "45s")

	flags := pflag.NewFlagSet("rnb", pflag.ContinueOnError)
	flags.String("metro-url", "", "")
	flags.Duration("timeout", 0, "")
	require.NoError(t, flags.Parse([]string{"--metro-url", "http://from-flag:8081"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag(KeyMetroURL, flags.Lookup("metro-url")))
	require.NoError(t, v.BindPFlag(KeyExecTimeout, flags.Lookup("timeout")))

	cfg, err := Load(v, LoadOptions{Home: home})
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag:8081", cfg.MetroURL)
	assert.Equal(t, 45*time.Second, cfg.Exec.Timeout, "unset flag falls through to env")
	assert.Equal(t, 25, cfg.Logs.MaxLogs)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	_, err := Load(viper.New(), LoadOptions{File: filepath.Join(t.TempDir(), "missing.toml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.toml")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	home := t.TempDir()
	writeConfigFile(t, home, "metro_url = \n")

	_, err := Load(viper.New(), LoadOptions{Home: home})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadRejectsNegativeWait(t *testing.T) {
	t.Setenv("RNB_WAIT_FOR_APP", "-1s")

	_, err := Load(viper.New(), LoadOptions{Home: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wait_for_app")
}

func TestEncodeCanBeLoadedBack(t *testing.T) {
	cfg := Config{
		MetroURL:         "http://localhost:19000",
		WaitForApp:       2 * time.Second,
		HandshakeTimeout: 5 * time.Second,
		Exec:             ExecConfig{Timeout: 10 * time.Second},
		Logs:             LogsConfig{Timeout: time.Minute, MaxLogs: 7},
	}

	data, err := Encode(cfg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, "http://localhost:19000", decoded["metro_url"])
	assert.Equal(t, "1m0s", decoded["logs"].(map[string]any)["timeout"])

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := Load(viper.New(), LoadOptions{File: path})
	require.NoError(t, err)

	cfg.File = path
	assert.Equal(t, cfg, loaded)
}
