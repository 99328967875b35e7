package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/museum/internal/backup"
	"github.com/roach88/museum/internal/blob"
	"github.com/roach88/museum/internal/catalog"
	"github.com/roach88/museum/internal/config"
	"github.com/roach88/museum/internal/hook"
	"github.com/roach88/museum/internal/ingest"
	"github.com/roach88/museum/internal/pgstore"
	"github.com/roach88/museum/internal/store"
)

// recordStore is implemented by both the SQLite and the Postgres store.
type recordStore interface {
	ingest.Writer
	catalog.Store
	Close() error
}

// app is the set of components a command works with, built from config.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    recordStore
	pipeline *ingest.Pipeline
	catalog  *catalog.Service
	backup   *backup.Adapter
}

// openApp loads configuration and opens the store and blob backend.
// source names the caller in events from the ingest pipeline; restores
// always report "restore". The caller must Close the app.
func openApp(ctx context.Context, opts *RootOptions, cmd *cobra.Command, source string) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.SlogLevel(), opts.Verbose)

	logger.Debug("opening database", "driver", cfg.Database.Driver)
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	blobs, err := openBlobs(ctx, cfg.Backup)
	if err != nil {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
		return nil, WrapExitError(ExitCommandError, "failed to open backup backend", err)
	}

	observer := hook.LogObserver{Logger: logger}
	newPipeline := func(source string) *ingest.Pipeline {
		return ingest.New(st,
			ingest.WithHeaderCheck(cfg.Ingest.VerifyHeader),
			ingest.WithObserver(observer),
			ingest.WithSource(source),
			ingest.WithLogger(logger),
		)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		pipeline: newPipeline(source),
		catalog:  catalog.NewService(st, observer, logger),
		backup: &backup.Adapter{
			Records:  st,
			Blobs:    blobs,
			Pipeline: newPipeline("restore"),
			Bucket:   cfg.Backup.Bucket,
			Logger:   logger,
		},
	}, nil
}

// Close releases the store.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (recordStore, error) {
	switch cfg.Driver {
	case "sqlite":
		return store.Open(cfg.Path)
	case "postgres":
		return pgstore.Open(ctx, cfg.DSN)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

func openBlobs(ctx context.Context, cfg config.BackupConfig) (blob.Store, error) {
	switch cfg.Backend {
	case "file":
		return blob.NewFileStore(cfg.Dir), nil
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Options{
			Profile:  cfg.AWSProfile,
			Region:   cfg.AWSRegion,
			Endpoint: cfg.Endpoint,
		})
	}
	return nil, fmt.Errorf("unknown backup backend %q", cfg.Backend)
}

// newLogger returns a text logger on w. verbose forces debug level.
func newLogger(w io.Writer, level slog.Level, verbose bool) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
