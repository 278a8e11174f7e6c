// Package config resolves the bridge settings from flags, RNB_* environment
// variables and an optional TOML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	KeyMetroURL         = "metro_url"
	KeyWaitForApp       = "wait_for_app"
	KeyHandshakeTimeout = "handshake_timeout"
	KeyExecTimeout      = "exec.timeout"
	KeyLogsTimeout      = "logs.timeout"
	KeyLogsMaxLogs      = "logs.max_logs"

	envPrefix    = "RNB"
	metroPortEnv = "RCT_METRO_PORT"
	configName   = "config"
	configType   = "toml"
	configDir    = ".config/rnb"
	defaultHost  = "localhost"
	defaultPort  = "8081"
)

type Config struct {
	MetroURL         string
	WaitForApp       time.Duration
	HandshakeTimeout time.Duration
	Exec             ExecConfig
	Logs             LogsConfig

	// File is the config file that was read, empty when none was found.
	File string
}

type ExecConfig struct {
	Timeout time.Duration
}

type LogsConfig struct {
	Timeout time.Duration
	MaxLogs int
}

type LoadOptions struct {
	// Home is the directory holding .config/rnb. Defaults to the user's
	// home directory.
	Home string
	// File overrides the config file location. A missing explicit file is
	// an error.
	File string
}

// Load resolves the configuration. Flags must already be bound to v with
// BindPFlag under the Key* names.
func Load(v *viper.Viper, opts LoadOptions) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", opts.File, err)
		}
	} else {
		home := opts.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return Config{}, fmt.Errorf("resolve home directory: %w", err)
			}
		}

		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(home, configDir))
		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := Config{
		MetroURL:         strings.TrimSpace(v.GetString(KeyMetroURL)),
		WaitForApp:       v.GetDuration(KeyWaitForApp),
		HandshakeTimeout: v.GetDuration(KeyHandshakeTimeout),
		Exec:             ExecConfig{Timeout: v.GetDuration(KeyExecTimeout)},
		Logs: LogsConfig{
			Timeout: v.GetDuration(KeyLogsTimeout),
			MaxLogs: v.GetInt(KeyLogsMaxLogs),
		},
		File: v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.MetroURL == "" {
		return errors.New("metro_url is empty")
	}
	if c.WaitForApp < 0 {
		return fmt.Errorf("wait_for_app must not be negative, got %s", c.WaitForApp)
	}
	if c.HandshakeTimeout < 0 {
		return fmt.Errorf("handshake_timeout must not be negative, got %s", c.HandshakeTimeout)
	}
	return nil
}

// DefaultMetroURL honours React Native's RCT_METRO_PORT, the port Metro
// and the app agree on when the default 8081 is taken.
func DefaultMetroURL() string {
	port := strings.TrimSpace(os.Getenv(metroPortEnv))
	if port == "" {
		port = defaultPort
	}
	return "http://" + net.JoinHostPort(defaultHost, port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyMetroURL, DefaultMetroURL())
	v.SetDefault(KeyWaitForApp, time.Duration(0))
	v.SetDefault(KeyHandshakeTimeout, 5*time.Second)
	v.SetDefault(KeyExecTimeout, 10*time.Second)
	v.SetDefault(KeyLogsTimeout, 5*time.Second)
	v.SetDefault(KeyLogsMaxLogs, 100)
}

type fileConfig struct {
	MetroURL         string         `toml:"metro_url"`
	WaitForApp       string         `toml:"wait_for_app"`
	HandshakeTimeout string         `toml:"handshake_timeout"`
	Exec             fileExecConfig `toml:"exec"`
	Logs             fileLogsConfig `toml:"logs"`
}

type fileExecConfig struct {
	Timeout string `toml:"timeout"`
}

type fileLogsConfig struct {
	Timeout string `toml:"timeout"`
	MaxLogs int    `toml:"max_logs"`
}

// Encode renders c in the config file format, so the output can be saved
// as config.toml as is.
func Encode(c Config) ([]byte, error) {
	data, err := toml.Marshal(fileConfig{
		MetroURL:         c.MetroURL,
		WaitForApp:       c.WaitForApp.String(),
		HandshakeTimeout: c.HandshakeTimeout.String(),
		Exec:             fileExecConfig{Timeout: c.Exec.Timeout.String()},
		Logs: fileLogsConfig{
			Timeout: c.Logs.Timeout.String(),
			MaxLogs: c.Logs.MaxLogs,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
