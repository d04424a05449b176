package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/finspect/invoice-pipeline/internal/common"
	"github.com/finspect/invoice-pipeline/internal/entity"
	"github.com/finspect/invoice-pipeline/internal/history"
	"github.com/finspect/invoice-pipeline/internal/ingest"
	"github.com/finspect/invoice-pipeline/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory to process invoices from (required)")
		configPath  = flag.String("config", "", "YAML config file (optional, env overrides apply on top)")
		out         = flag.String("out", "", "output directory (optional, overrides config)")
		workers     = flag.Int("workers", 4, "concurrent invoices")
		historyPath = flag.String("history", "", "historical invoices for the anomaly screen (.json array or .db/.sqlite)")
		watch       = flag.Bool("watch", false, "keep watching the directory for new invoices")
		debounce    = flag.Duration("debounce", 500*time.Millisecond, "watch-mode debounce window")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	var cfg *common.Config
	var err error
	if *configPath != "" {
		cfg, err = common.LoadConfigFile(*configPath)
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
	} else {
		cfg = common.LoadConfig()
	}
	if *out != "" {
		cfg.Export.OutputDir = *out
	}

	proc, err := pipeline.NewProcessor(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var hist []entity.InvoiceRecord
	if *historyPath != "" {
		var src history.Source
		if strings.HasSuffix(*historyPath, ".db") || strings.HasSuffix(*historyPath, ".sqlite") {
			src = history.NewSQLiteSource(*historyPath)
		} else {
			src = history.NewJSONSource(*historyPath)
		}
		hist, err = src.Load(ctx)
		if err != nil {
			logger.Error("failed to load history", "path", *historyPath, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded history", "records", len(hist))
	}

	if *watch {
		runWatch(ctx, proc, logger, *dir, *workers, *debounce, hist)
		return
	}

	paths, err := ingest.FindInvoices(*dir)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Printf("No invoice files found in %s\n", *dir)
		return
	}

	batch := proc.ProcessBatch(ctx, paths, pipeline.BatchOptions{
		Workers: *workers,
		History: hist,
	})

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Total: %d\n", batch.Total)
	fmt.Printf("- Successful: %d\n", batch.Successful)
	fmt.Printf("- Failed: %d\n", batch.Failed)
	fmt.Printf("- Output: %s\n", cfg.Export.OutputDir)

	if batch.Failed > 0 {
		os.Exit(1)
	}
}

func runWatch(ctx context.Context, proc *pipeline.Processor, logger *slog.Logger, dir string, workers int, debounce time.Duration, hist []entity.InvoiceRecord) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    debounce,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to start watcher", "dir", dir, "error", err)
		os.Exit(1)
	}

	queue := pipeline.NewQueue(proc, logger,
		pipeline.WithWorkers(workers),
		pipeline.WithOptions(pipeline.Options{History: hist}))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("watching for invoices", "dir", dir)
	for {
		select {
		case <-sig:
			logger.Info("shutting down")
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			queue.Shutdown(shutdownCtx)
			shutdownCancel()
			return
		case path, ok := <-events:
			if !ok {
				return
			}
			queue.Enqueue(path)
		case err, ok := <-errs:
			if ok && err != nil {
				logger.Error("watch error", "error", err)
			}
		}
	}
}
