package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/altinukshini/gha-rerun/internal/api"
	"github.com/altinukshini/gha-rerun/internal/cache"
	"github.com/altinukshini/gha-rerun/internal/config"
	"github.com/altinukshini/gha-rerun/internal/events"
	"github.com/altinukshini/gha-rerun/internal/log"
	"github.com/altinukshini/gha-rerun/internal/rerun"
	"github.com/altinukshini/gha-rerun/internal/storage"
)

const apiTimeout = 60 * time.Second

var envFile string

var rootCmd = &cobra.Command{
	Use:   "gha-rerun",
	Short: "Rerun failed GitHub Actions workflows whose logs end with a trigger string",
	Long: `gha-rerun looks at the newest failed run of a workflow triggered by a given
actor, downloads its log archive and checks one step log for a trigger string.
When a line ends with the trigger the workflow is rerun, and the run's pull
requests can be labelled and commented on.

Settings come from flags, environment variables and an optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (skipped when missing)")
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// app is everything one command needs to run invocations.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	handler *rerun.Handler
}

// newApp loads the configuration for cmd and wires the handler. Logs go to
// logOut.
func newApp(ctx context.Context, cmd *cobra.Command, logOut io.Writer, opts ...rerun.Option) (*app, error) {
	loader := config.NewLoader()
	if err := loader.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, err := log.New(log.Config{
		Level:  log.LogLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: logOut,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.Debug("configuration loaded", zap.Stringer("config", cfg))

	client, err := api.NewClient(api.Options{
		Repo:    cfg.RepoNWO(),
		Host:    cfg.Host,
		Token:   cfg.Token,
		Timeout: apiTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create GitHub client: %w", err)
	}

	store, err := cache.NewLogStore(cfg.LogArchivePath)
	if err != nil {
		return nil, err
	}

	if cfg.ArchiveBucket != "" {
		archiver, err := storage.NewS3ArchiverFromEnv(ctx, cfg.ArchiveBucket, cfg.ArchivePrefix)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rerun.WithArchiver(archiver))
	}

	h := rerun.New(cfg, client, store, events.New(logger), opts...)
	return &app{cfg: cfg, log: logger, handler: h}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
