// cmd/scale-audit/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sapore-ops/scale-audit/pkg/audit"
	"github.com/sapore-ops/scale-audit/pkg/config"
	"github.com/sapore-ops/scale-audit/pkg/export"
	"github.com/sapore-ops/scale-audit/pkg/ingest"
	"github.com/sapore-ops/scale-audit/pkg/model"
)

var (
	// Global flags
	verbose bool

	// Run flags
	inputPath   string
	inputFormat string
	outputPath  string
	fromDate    string
	toDate      string
	workers     int

	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "scale-audit",
	Short: "Audits industrial cafeteria weighing-scale records",
	Long: `scale-audit consolidates weighing-scale exports and annotates every
weighing event with its meal shift, food category and probable data-entry
errors. Time-of-day rules catch events logged outside their service windows;
a clustering pass additionally finds preparation-loss entries that behave
like mid-service pacing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if os.Getenv("LOG_FORMAT") == "console" {
			zapConfig = zap.NewDevelopmentConfig()
		}
		if text := os.Getenv("LOG_LEVEL"); text != "" {
			if level, err := zapcore.ParseLevel(text); err == nil {
				zapConfig.Level = zap.NewAtomicLevelAt(level)
			}
		}
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// runCmd executes one audit run end to end.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Classify a scale export and write the consolidated dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runAudit(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	runCmd.Flags().StringVarP(&inputPath, "input", "i", ".",
		"input workbook/CSV, or a directory to search for the workbook in")
	runCmd.Flags().StringVarP(&inputFormat, "format", "f", "auto",
		"input format: auto, xlsx or csv")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "apuracao_consolidada.xlsx",
		"output path (.xlsx or .csv), or \"postgres\" for the database sink")
	runCmd.Flags().StringVar(&fromDate, "from", "", "only audit dates from this dd/mm/yyyy date")
	runCmd.Flags().StringVar(&toDate, "to", "", "end of the inclusive date range (defaults to --from)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "classification worker count (0 = auto)")

	rootCmd.AddCommand(runCmd)
}

func runAudit(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if workers > 0 {
		cfg.WorkerPoolSize = workers
	}

	filter, err := ingest.NewDateFilter(fromDate, toDate)
	if err != nil {
		return err
	}

	records, err := readRecords(cfg, filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no weighing records matched the input and date filter")
	}

	manager, err := audit.NewAuditManager(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build audit pipeline: %w", err)
	}

	result, err := manager.Run(ctx, records)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		logger.Warn("Verification warning", zap.String("detail", warning))
	}

	if err := writeRecords(ctx, cfg, records); err != nil {
		return err
	}

	fmt.Print(manager.GenerateReport())
	return nil
}

// readRecords resolves the input path and materializes the dataset. A
// directory is searched for the workbook by filename pattern, like the
// auditors drop it next to the tool.
func readRecords(cfg *config.Config, filter ingest.DateFilter) ([]model.WeighingRecord, error) {
	path := inputPath

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read input %s: %w", path, err)
	}
	if info.IsDir() {
		path, err = ingest.FindWorkbook(path, cfg.WorkbookPattern)
		if err != nil {
			return nil, err
		}
		logger.Info("Workbook located", zap.String("path", path))
	}

	format := strings.ToLower(inputFormat)
	if format == "auto" || format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	var (
		records  []model.WeighingRecord
		findings []model.RowFinding
	)

	switch format {
	case "csv":
		reader, err := ingest.NewCSVReader(logger)
		if err != nil {
			return nil, err
		}
		records, findings, err = reader.Read(path, filter)
		if err != nil {
			return nil, err
		}
	case "xlsx":
		reader, err := ingest.NewWorkbookReader(logger)
		if err != nil {
			return nil, err
		}
		records, findings, err = reader.Read(path, filter)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported input format %q", inputFormat)
	}

	if len(findings) > 0 {
		logger.Info("Ingestion applied value normalizations", zap.Int("count", len(findings)))
		for _, finding := range findings {
			logger.Debug("Ingestion finding",
				zap.String("row", finding.RowIdentifier),
				zap.String("column", finding.Column),
				zap.String("operation", finding.Operation),
				zap.String("reason", finding.Reason))
		}
	}

	return records, nil
}

// writeRecords persists the consolidated dataset to the selected sink.
func writeRecords(ctx context.Context, cfg *config.Config, records []model.WeighingRecord) error {
	switch {
	case outputPath == "postgres":
		if cfg.Postgres == nil {
			return fmt.Errorf("postgres output selected but POSTGRES_USER/POSTGRES_PASSWORD/POSTGRES_DB are not configured")
		}
		writer, err := export.NewPostgresWriter(ctx, cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer writer.Close()
		return writer.Write(ctx, records)

	case strings.EqualFold(filepath.Ext(outputPath), ".csv"):
		writer, err := export.NewCSVWriter(outputPath, logger)
		if err != nil {
			return err
		}
		return writer.Write(ctx, records)

	default:
		writer, err := export.NewXLSXWriter(outputPath, logger)
		if err != nil {
			return err
		}
		return writer.Write(ctx, records)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
