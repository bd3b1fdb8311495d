package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/hli122/salesops-analytics-db/internal/config"
	"github.com/hli122/salesops-analytics-db/internal/ingest/csvsource"
	"github.com/hli122/salesops-analytics-db/internal/ingest/normalizer"
	"github.com/hli122/salesops-analytics-db/internal/ingest/repository"
	"github.com/hli122/salesops-analytics-db/internal/ingest/service"
	"github.com/hli122/salesops-analytics-db/internal/migration"
	"github.com/hli122/salesops-analytics-db/internal/observability"
	"github.com/hli122/salesops-analytics-db/internal/observability/logger"
	"github.com/hli122/salesops-analytics-db/internal/observability/metrics"
	"github.com/hli122/salesops-analytics-db/pkg/db"
	"go.uber.org/zap"
)

// salesops-import reads a sales CSV, normalizes it and loads it into the
// warehouse schema. Re-running the same file is safe: previously loaded
// rows are skipped by provenance.
func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "path to the sales CSV (falls back to SALES_DATA_FILE)")
	flag.Parse()

	if filePath == "" {
		filePath = os.Getenv("SALES_DATA_FILE")
	}
	if filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: salesops-import -file <sales.csv>")
		os.Exit(2)
	}

	cfg := config.Load()
	obsCfg := observability.LoadConfig(cfg)

	log, err := logger.New(nil, logger.Config{
		ServiceName:   obsCfg.ServiceName + "-import",
		Environment:   obsCfg.Environment,
		Version:       obsCfg.Version,
		Level:         obsCfg.LogLevel,
		Format:        obsCfg.LogFormat,
		IncludeCaller: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	ingestMetrics := metrics.NewIngestMetrics(metrics.Config{
		ServiceName: obsCfg.ServiceName + "-import",
		Environment: obsCfg.Environment,
	})

	if err := run(cfg, log, ingestMetrics, filePath); err != nil {
		log.Fatal("import failed", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger, ingestMetrics *metrics.IngestMetrics, filePath string) error {
	conn, err := db.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := migration.Run(conn, cfg); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	file, err := csvsource.Open(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	normalized, err := normalizer.Normalize(file.Rows)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", file.SourceName, err)
	}
	if normalized.Dropped > 0 {
		ingestMetrics.RecordDropped(normalized.Dropped)
		log.Warn("dropped rows with missing or invalid fields",
			zap.String("source_file", file.SourceName),
			zap.Int("dropped", normalized.Dropped),
		)
	}

	genID, err := snowflake.NewNode(1)
	if err != nil {
		return fmt.Errorf("snowflake node: %w", err)
	}

	loader := service.New(service.Params{
		DB:      conn,
		Log:     log,
		GenID:   genID,
		Cfg:     cfg,
		Dims:    repository.ProvideDimensions(genID),
		Facts:   repository.ProvideFacts(),
		Metrics: ingestMetrics,
	})

	result, err := loader.Load(context.Background(), file.SourceName, normalized.Rows)
	if err != nil {
		return fmt.Errorf("load %s: %w", file.SourceName, err)
	}

	for _, w := range result.Warnings {
		log.Warn("line total differs from unit_price*units",
			zap.String("source_file", file.SourceName),
			zap.Int("row_number", w.RowNumber),
			zap.String("expected_total", w.ExpectedTotal.String()),
			zap.String("line_total", w.LineTotal.String()),
			zap.String("diff", w.Diff.String()),
		)
	}

	log.Info("import finished",
		zap.String("source_file", file.SourceName),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("dropped", normalized.Dropped),
		zap.Int("warnings", len(result.Warnings)),
	)
	return nil
}
