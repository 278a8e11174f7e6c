package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bnema/rnbridge/internal/adapters/inspector"
	"github.com/bnema/rnbridge/internal/adapters/metro"
	logsrender "github.com/bnema/rnbridge/internal/adapters/render/logs"
	targetsrender "github.com/bnema/rnbridge/internal/adapters/render/targets"
	"github.com/bnema/rnbridge/internal/application"
	"github.com/bnema/rnbridge/internal/config"
	"github.com/bnema/rnbridge/internal/logger"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type app struct {
	viper      *viper.Viper
	configFile string
	verbose    bool

	cfg             config.Config
	log             logr.Logger
	flush           func()
	service         *application.Service
	targetsRenderer targetsrender.Renderer
	logRenderer     logsrender.Renderer
}

// wire loads the configuration and builds the service. It runs once flags
// are parsed, so flag values take part in config resolution.
func (a *app) wire(cmd *cobra.Command) error {
	cfg, err := config.Load(a.viper, config.LoadOptions{File: a.configFile})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, flush := logger.New(cmd.ErrOrStderr(), a.verbose)
	log.V(1).Info("configuration loaded", "file", cfg.File, "metroURL", cfg.MetroURL)

	discoverer := metro.Client{URL: cfg.MetroURL, Log: log.WithName("metro")}
	dialer := inspector.Dialer{HandshakeTimeout: cfg.HandshakeTimeout, Log: log.WithName("inspector")}

	a.cfg = cfg
	a.log = log
	a.flush = flush
	a.service = application.NewService(discoverer, dialer, log)
	a.targetsRenderer = targetsrender.NewRenderer()
	a.logRenderer = logsrender.NewRenderer()
	return nil
}

func (a *app) close() {
	if a.flush != nil {
		a.flush()
	}
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s to %s: %v", flag.Name, key, err))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
