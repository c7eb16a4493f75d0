// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/starford/spip2md/internal/exporter"
	"github.com/starford/spip2md/internal/manifest"
	"github.com/starford/spip2md/internal/markup"
	"github.com/starford/spip2md/internal/report"
	"github.com/starford/spip2md/internal/source"
	"github.com/starford/spip2md/internal/storage"
)

// Run exports the configured SPIP site with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{out: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := *app.config
	if len(app.languages) > 0 {
		cfg.Export.Languages = app.languages
		if err := cfg.Export.Validate(); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	logSink, closeLog, err := openLog(cfg.App)
	if err != nil {
		return err
	}
	defer closeLog()

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(logSink, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("driver", cfg.Source.Driver),
		slog.String("asset_dir", cfg.Source.AssetDir),
		slog.String("output_dir", cfg.Export.OutputDir),
		slog.Any("languages", cfg.Export.Languages),
		slog.String("log_level", cfg.App.LogLevel.String()))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := source.Open(cfg.Source.Driver, cfg.Source.DSN, cfg.Source.TablePrefix)
	if err != nil {
		return fmt.Errorf("init source: %w", err)
	}
	defer repo.Close()

	store, err := storage.Create(cfg.Export.OutputDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if app.clear || cfg.Export.ClearOutput {
		logger.Info("Clearing output tree", slog.String("output_dir", cfg.Export.OutputDir))
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clear output: %w", err)
		}
	}

	printer := report.NewPrinter(app.out)
	exOpts := []exporter.Option{exporter.WithLogger(logger)}
	if !app.quiet {
		exOpts = append(exOpts, exporter.WithObserver(printer))
	}

	ex, err := exporter.New(repo, store, exporterConfig(cfg), exOpts...)
	if err != nil {
		return fmt.Errorf("init exporter: %w", err)
	}

	sum, err := ex.Run(ctx)
	if err != nil {
		logger.Error("Export failed", slog.String("error", err.Error()))
		return err
	}
	printer.Summary(sum)

	if cfg.Manifest.Enabled() {
		if err := syncManifest(cfg.Manifest.Path, store, cfg.Export.FileExtension, logger); err != nil {
			return err
		}
	}

	logger.Info("Export finished successfully")
	return nil
}

// exporterConfig maps the file configuration onto the exporter's.
func exporterConfig(cfg Config) exporter.Config {
	e := cfg.Export
	return exporter.Config{
		Languages:              e.Languages,
		StorageLanguage:        e.StorageLanguage,
		AssetDir:               cfg.Source.AssetDir,
		TitleMaxLength:         e.TitleMaxLength,
		FileExtension:          e.FileExtension,
		FrontMatter:            e.FrontMatter,
		ExportDrafts:           e.ExportDrafts,
		ExportEmpty:            e.ExportEmpty,
		PrependH1:              e.PrependH1,
		PrependID:              e.PrependID,
		IgnorePatterns:         e.IgnorePatterns,
		UnknownCharReplacement: e.UnknownCharReplacement,
		Workers:                e.Workers,
		DebugMeta:              e.DebugMeta,
		Markup: markup.Options{
			Footnotes:      e.Footnotes,
			WikiURL:        e.WikilinkURL,
			RemoveHTML:     e.RemoveHTML,
			MetadataMarkup: e.MetadataMarkup,
		},
	}
}

// openLog returns the log destination. The returned func closes it.
func openLog(cfg ApplicationConfig) (io.Writer, func(), error) {
	if cfg.LogFile == "" {
		return os.Stderr, func() {}, nil
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if cfg.ClearLog {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(cfg.LogFile, flags, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func syncManifest(path string, store storage.Provider, ext string, logger *slog.Logger) error {
	db, err := manifest.Open(path)
	if err != nil {
		return fmt.Errorf("init manifest: %w", err)
	}
	defer db.Close()

	st, err := manifest.Sync(db, store, ext, logger)
	if err != nil {
		return fmt.Errorf("sync manifest: %w", err)
	}
	logger.Info("Manifest synced",
		slog.String("path", path),
		slog.Int("indexed", st.Indexed),
		slog.Int("unchanged", st.Unchanged),
		slog.Int("removed", st.Removed))
	return nil
}
