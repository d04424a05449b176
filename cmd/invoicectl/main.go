package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/common"
	"github.com/finspect/invoice-pipeline/internal/entity"
	"github.com/finspect/invoice-pipeline/internal/erp"
	"github.com/finspect/invoice-pipeline/internal/history"
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
		input       = flag.String("input", "", "invoice file to process (required)")
		configPath  = flag.String("config", "", "YAML config file (optional, env overrides apply on top)")
		out         = flag.String("out", "", "output base name (optional, defaults to input file name)")
		formats     = flag.String("formats", "", "comma-separated export formats: json,csv,xlsx")
		historyPath = flag.String("history", "", "historical invoices for the anomaly screen (.json array or .db/.sqlite)")
		erpKind     = flag.String("erp", "", "push to ERP after export: generic, sap or oracle")
		erpURL      = flag.String("erp-url", "", "ERP endpoint URL")
		erpKey      = flag.String("erp-key", "", "ERP API key")
		strict      = flag.Bool("strict", false, "treat validation warnings as errors")
		report      = flag.Bool("report", false, "print the full processing report as JSON")
	)
	flag.Parse()

	if *input == "" {
		printError("Error: --input is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *formats != "" {
		cfg.Export.Formats = splitList(*formats)
	}
	if *strict {
		cfg.Validation.StrictMode = true
	}

	proc, err := pipeline.NewProcessor(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var hist []entity.InvoiceRecord
	if *historyPath != "" {
		hist, err = loadHistory(ctx, *historyPath)
		if err != nil {
			logger.Error("failed to load history", "path", *historyPath, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded history", "records", len(hist))
	}

	var adapter erp.Adapter
	if *erpKind != "" {
		kind, err := constants.ParseERPKind(*erpKind)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		adapter, err = erp.New(kind, logger)
		if err != nil {
			logger.Error("failed to build ERP adapter", "error", err)
			os.Exit(1)
		}
		if err := adapter.Connect(map[string]string{"url": *erpURL, "api_key": *erpKey}); err != nil {
			logger.Error("failed to connect to ERP", "error", err)
			os.Exit(1)
		}
	}

	res := proc.Process(ctx, *input, pipeline.Options{
		OutputName: *out,
		History:    hist,
		ERP:        adapter,
	})

	if *report {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			logger.Error("failed to encode report", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		printSummary(res)
	}

	if !res.Success {
		os.Exit(1)
	}
}

func loadConfig(path string) (*common.Config, error) {
	if path == "" {
		return common.LoadConfig(), nil
	}
	return common.LoadConfigFile(path)
}

func loadHistory(ctx context.Context, path string) ([]entity.InvoiceRecord, error) {
	var src history.Source
	switch {
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		src = history.NewSQLiteSource(path)
	default:
		src = history.NewJSONSource(path)
	}
	return src.Load(ctx)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printSummary(res pipeline.Result) {
	status := "OK"
	if !res.Success {
		status = "FAILED"
	}
	fmt.Printf("Processing %s: %s\n", status, res.InvoicePath)
	if res.Error != "" {
		fmt.Printf("- Error: %s\n", res.Error)
	}
	if res.Validation != nil {
		fmt.Printf("- Validation: valid=%v errors=%d warnings=%d\n",
			res.Validation.Valid, len(res.Validation.Errors), len(res.Validation.Warnings))
		for _, e := range res.Validation.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		for _, w := range res.Validation.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
	if res.Anomalies != nil && res.Anomalies.HasAnomalies {
		fmt.Printf("- Anomalies: %d\n", res.Anomalies.TotalAnomalies)
		for _, a := range res.Anomalies.Anomalies {
			fmt.Printf("  [%s] %s\n", a.Severity, a.Message)
		}
	}
}
