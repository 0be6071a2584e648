// cmd/quality-pipeline/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/techcommerce/data-quality/pkg/audit"
	"github.com/techcommerce/data-quality/pkg/cleaner"
	"github.com/techcommerce/data-quality/pkg/config"
	"github.com/techcommerce/data-quality/pkg/expect"
	"github.com/techcommerce/data-quality/pkg/report"
	"github.com/techcommerce/data-quality/pkg/source"
)

func main() {
	jsonOut := flag.Bool("json", false, "emit the run report as JSON instead of text")
	outPath := flag.String("out", "", "write cleaned batches as JSON to this file")
	flag.Parse()

	// A missing .env file is fine; real deployments pass environment
	// variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger, *jsonOut, *outPath); err != nil {
		logger.Error("Pipeline run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, jsonOut bool, outPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	src, err := source.NewFactory(cfg, logger).Create(ctx)
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	defer src.Close()

	batches, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load batches: %w", err)
	}

	pipeline, err := cleaner.NewPipeline(logger)
	if err != nil {
		return err
	}

	cleaned, pipelineReport, err := pipeline.Run(batches)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	verification := cleaner.NewVerifier(logger.Named("verify"), nil).Verify(cleaned)
	if !verification.Passed {
		for _, issue := range verification.Issues {
			logger.Warn("Output guarantee violated",
				zap.String("table", issue.Table),
				zap.String("rule", issue.Rule),
				zap.String("row", issue.RowIdentifier),
				zap.String("detail", issue.Description))
		}
	}

	rules, err := expect.LoadRules(cfg.RulesPath)
	if err != nil {
		return fmt.Errorf("failed to load expectation rules: %w", err)
	}
	quality := expect.NewSuite(rules, logger.Named("expect")).Check(cleaned)

	if cfg.AuditEnabled {
		recorder, err := audit.NewPostgresRecorder(ctx, cfg.AuditPostgres, logger.Named("audit"))
		if err != nil {
			return fmt.Errorf("failed to create audit recorder: %w", err)
		}
		defer recorder.Close()
		if err := recorder.Record(ctx, pipelineReport.RunID, pipelineReport.Operations); err != nil {
			return fmt.Errorf("failed to record audit trail: %w", err)
		}
	}

	if outPath != "" {
		if err := writeCleaned(outPath, cleaned); err != nil {
			return err
		}
		logger.Info("Cleaned batches written", zap.String("path", outPath))
	}

	runReport := &report.RunReport{Pipeline: pipelineReport, Quality: quality}
	if jsonOut {
		out, err := runReport.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
	} else {
		fmt.Print(runReport.Render())
	}

	return nil
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func writeCleaned(path string, batches interface{}) error {
	data, err := json.MarshalIndent(batches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cleaned batches: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
