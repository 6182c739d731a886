package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gmaps-scraper/config"
	"gmaps-scraper/models"
	"gmaps-scraper/scraper/gmaps"
	"gmaps-scraper/services"
	"gmaps-scraper/storage"
	"gmaps-scraper/utils"
)

func main() {
	logger := utils.NewLogger()

	cfg := config.Load()
	if path := os.Getenv("ENV_FILE"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			logger.Error("Failed to load env file %s: %v", path, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	flag.StringVar(&cfg.InputHTML, "input", cfg.InputHTML, "saved results page to extract from")
	flag.StringVar(&cfg.SearchURL, "url", cfg.SearchURL, "search results URL to capture with Chrome")
	flag.StringVar(&cfg.BaseURL, "base", cfg.BaseURL, "URL used to resolve relative website links")
	flag.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "YAML file overriding extraction rules")
	flag.StringVar(&cfg.OutputName, "name", cfg.OutputName, "export file name (sanitized, .csv appended)")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "export directory")
	flag.BoolVar(&cfg.XLSXOutput, "xlsx", cfg.XLSXOutput, "also write an .xlsx workbook")
	flag.StringVar(&cfg.JSONOutput, "json", cfg.JSONOutput, "also dump extracted records as JSON to this path")
	flag.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "also store the export in this SQLite database")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Warn("Unknown log level %q, using info", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== Google Maps Extraction starting ===")

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return err
	}
	if cfg.BaseURL != "" {
		rules.BaseURL = cfg.BaseURL
	}

	extractor, err := gmaps.NewExtractor(rules, logger)
	if err != nil {
		return err
	}

	listings, err := extractListings(ctx, cfg, extractor, logger)
	if err != nil {
		return err
	}
	logger.Info("Extracted %d listings", len(listings))

	if cfg.JSONOutput != "" {
		if err := writeJSON(cfg.JSONOutput, listings); err != nil {
			logger.Error("JSON dump failed: %v", err)
		} else {
			logger.Info("Records saved to %s", cfg.JSONOutput)
		}
	}

	if len(listings) == 0 {
		logger.Warn("No listings found on the page. Export skipped.")
		return nil
	}

	exporter, closeSinks, err := buildExporter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	res, err := exporter.Export(ctx, listings, cfg.OutputName)
	switch {
	case errors.Is(err, services.ErrNoResults):
		logger.Warn("No listings found on the page. Export skipped.")
		return nil
	case res == nil:
		return err
	case err != nil:
		logger.Error("Export partially failed: %v", err)
	}
	logger.Info("Exported %d rows as %s via %s", res.Rows, res.Filename, strings.Join(res.Sinks, ", "))

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(os.Stdout, insightSvc.Generate(listings))

	fmt.Printf("  Done. CSV → %s\n\n", filepath.Join(cfg.OutputDir, res.Filename))
	return err
}

// extractListings reads the page from the saved snapshot when one is given,
// otherwise captures it live.
func extractListings(ctx context.Context, cfg *config.Config, x *gmaps.Extractor, logger *utils.Logger) ([]models.Listing, error) {
	if cfg.InputHTML != "" {
		f, err := os.Open(cfg.InputHTML)
		if err != nil {
			return nil, fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()
		logger.Info("Reading snapshot %s", cfg.InputHTML)
		return x.ExtractHTML(f)
	}

	if cfg.SearchURL == "" {
		return nil, errors.New("nothing to extract: set -input or -url")
	}
	if !x.IsSearchPage(cfg.SearchURL) {
		logger.Warn("%s is not a Google Maps search page. The export control only applies there.", cfg.SearchURL)
		return nil, gmaps.ErrNotSearchPage
	}

	snap := gmaps.NewSnapshotter(gmaps.SnapshotOptions{
		ChromeBin:  cfg.ChromeBin,
		Headless:   cfg.Headless,
		Timeout:    cfg.CaptureTimeout,
		MaxRetries: cfg.MaxRetries,
	}, x, logger)

	page, err := snap.Capture(ctx, cfg.SearchURL)
	if err != nil {
		return nil, err
	}
	return x.ExtractHTML(strings.NewReader(page))
}

// buildExporter wires the configured sinks. The returned func closes any
// database connections that were opened.
func buildExporter(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*services.Exporter, func(), error) {
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Closing sink: %v", err)
			}
		}
	}

	sinks := []storage.TextSink{storage.NewFileSink(cfg.OutputDir)}

	if cfg.PostgresEnabled() {
		pg, err := storage.NewPostgresSink(ctx, cfg.DSN())
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pg.Close)
		sinks = append(sinks, pg)
	}

	if cfg.SQLitePath != "" {
		lite, err := storage.NewSQLiteSink(ctx, cfg.SQLitePath)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		closers = append(closers, lite.Close)
		sinks = append(sinks, lite)
	}

	exporter := services.NewExporter(logger, cfg.ExportConcurrency, sinks...)
	if cfg.XLSXOutput {
		exporter.AddGridWriter(storage.NewXLSXWriter(cfg.OutputDir))
	}
	return exporter, closeAll, nil
}

func writeJSON(path string, listings []models.Listing) error {
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
