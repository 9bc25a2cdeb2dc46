package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"logisticsdash/internal/charts"
	"logisticsdash/internal/config"
	"logisticsdash/internal/dataset"
	"logisticsdash/internal/exporter"
	"logisticsdash/internal/infrastructure"
	"logisticsdash/internal/middleware"
	"logisticsdash/internal/services"
	"logisticsdash/internal/validation"
)

// options are the command line flags
type options struct {
	Year    int
	Format  exporter.Format
	Out     string
	DataDir string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("Invalid arguments", slog.String("error", err.Error()))
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if opts.DataDir != "" {
		cfg.Data.Dir = opts.DataDir
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	paths, err := run(context.Background(), cfg, opts, logger)
	if err != nil {
		logger.Error("Report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Report written", slog.Any("files", paths))
}

// parseFlags reads and validates the command line
func parseFlags(args []string, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(output)

	year := fs.Int("year", 0, "year to report on (defaults to the smallest year in the data)")
	format := fs.String("format", string(exporter.FormatXLSX), "output format: xlsx or csv")
	out := fs.String("out", "", "output file for xlsx, output directory for csv")
	dataDir := fs.String("data", "", "directory holding the input datasets (overrides configuration)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	f, ok := exporter.ParseFormat(*format)
	if !ok {
		return options{}, fmt.Errorf("unsupported format %q", *format)
	}

	opts := options{Year: *year, Format: f, Out: *out, DataDir: *dataDir}
	if opts.Year != 0 {
		query := middleware.YearQuery{Year: &opts.Year}
		if err := middleware.NewValidator().ValidateStruct(query); err != nil {
			return options{}, fmt.Errorf("invalid year %d: must be between 1 and 9999", opts.Year)
		}
	}
	if opts.Out == "" {
		opts.Out = defaultOutput(opts)
	}
	return opts, nil
}

// defaultOutput names the report after its selection
func defaultOutput(opts options) string {
	name := "logistics_report"
	if opts.Year != 0 {
		name += "_" + strconv.Itoa(opts.Year)
	}
	if opts.Format == exporter.FormatXLSX {
		return name + ".xlsx"
	}
	return name
}

// run loads the datasets, logs the KPIs of the selection and writes the export
func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) ([]string, error) {
	outputs := validation.NewOutputValidator(logger)
	if opts.Format == exporter.FormatXLSX {
		if err := outputs.ValidateFilePath(opts.Out); err != nil {
			return nil, err
		}
	} else if err := outputs.ValidateDirectory(opts.Out); err != nil {
		return nil, err
	}

	store, err := dataset.Load(ctx, dataset.SourcesFromConfig(cfg.Data), logger)
	if err != nil {
		return nil, err
	}

	svc := services.NewDashboardService(store, charts.NewRenderer(cfg.Charts.Width, cfg.Charts.Height), nil, nil, logger)

	var requested *int
	if opts.Year != 0 {
		requested = &opts.Year
	}

	snap := svc.Snapshot(ctx, requested, services.FrontEndReport)

	prefix := "logistics"
	attrs := []any{
		slog.Int64("total_order_quantity", snap.KPIs.TotalOrderQuantity),
		slog.String("total_cost_savings", snap.KPIs.TotalCostSavings.String()),
		slog.String("average_warehouse_cost", snap.KPIs.AverageWarehouseCost.String()),
		slog.Int("orders", snap.Counts.Orders),
		slog.Int("freight", snap.Counts.Freight),
		slog.Int("warehouse", snap.Counts.Warehouse),
	}
	if snap.Year == nil {
		logger.WarnContext(ctx, "no data available, writing an empty report")
	} else {
		prefix += "_" + strconv.Itoa(*snap.Year)
		attrs = append([]any{slog.Int("year", *snap.Year)}, attrs...)
	}

	logger.InfoContext(ctx, "kpis", attrs...)
	for _, card := range snap.Cards {
		logger.InfoContext(ctx, "card", slog.String("label", card.Label), slog.String("value", card.Value))
	}

	sheets := exporter.Sheets(svc.ExportViews(snap.Year))

	switch opts.Format {
	case exporter.FormatXLSX:
		if err := exporter.WriteXLSXFile(opts.Out, sheets); err != nil {
			return nil, err
		}
		return []string{opts.Out}, nil
	default:
		return exporter.NewCSVWriter(opts.Out, logger).WriteSheets(prefix, sheets)
	}
}
