package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/pharmadash/pkg/application/services"
	"github.com/vsinha/pharmadash/pkg/config"
	"github.com/vsinha/pharmadash/pkg/infrastructure/logging"
	"github.com/vsinha/pharmadash/pkg/infrastructure/repositories/tabular"
)

// Env is what every command needs: the loaded configuration and root logger
type Env struct {
	Config *config.Config
	Logger *logrus.Logger
	// Clock is the reference time of renders, time.Now when nil
	Clock func() time.Time
	// Out receives command output, os.Stdout when nil
	Out io.Writer
}

// GlobalFlags are the flags shared by all commands
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	Source     string
	DataDir    string
}

// NewEnv loads the configuration and builds the root logger. Flags take
// priority over the environment, which takes priority over the file.
func NewEnv(flags GlobalFlags) (*Env, error) {
	cfg, err := config.Load(flags.ConfigFile, func(c *config.Config) {
		if flags.Source != "" {
			c.Source.Kind = flags.Source
		}
		if flags.DataDir != "" {
			c.Source.DataDir = flags.DataDir
		}
		if flags.LogLevel != "" {
			c.Logging.Level = flags.LogLevel
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	return &Env{Config: cfg, Logger: logger}, nil
}

func (e *Env) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

// Dashboard opens the configured source and builds the dashboard service on
// top of it. Call the returned function to release the source.
func (e *Env) Dashboard() (*services.DashboardService, func() error, error) {
	fetcher, closeFn, err := OpenSource(e.Config.Source, e.Logger)
	if err != nil {
		return nil, nil, err
	}

	repo := tabular.NewRepository(fetcher, logging.Component(e.Logger, "repository"))
	svc := services.NewDashboardService(repo, repo, services.DashboardConfig{
		ExpiryWindow: e.Config.Dashboard.ExpiryWindow(),
		TopN:         e.Config.Dashboard.TopN,
		Clock:        e.Clock,
	}, logging.Component(e.Logger, "dashboard"))

	return svc, closeFn, nil
}
