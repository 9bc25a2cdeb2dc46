package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"logisticsdash/internal/analytics"
	"logisticsdash/internal/charts"
	"logisticsdash/internal/dataset"
	"logisticsdash/internal/exporter"
	"logisticsdash/internal/infrastructure"
)

// Selector labels of the year control
const (
	SelectorLabel = "Filter by Year:"
	NoDataLabel   = "No data available"
)

// YearOptions describes the year selector
type YearOptions struct {
	Years   []int  `json:"years"`
	Default *int   `json:"default"`
	HasData bool   `json:"has_data"`
	Label   string `json:"label"`
}

// RowCounts are the row counts of one set of views
type RowCounts struct {
	Orders    int `json:"orders"`
	Freight   int `json:"freight"`
	Warehouse int `json:"warehouse"`
}

// Snapshot is the full result of one selection: year-filtered KPIs and charts
// plus the whole-dataset KPIs shown on the overview cards.
type Snapshot struct {
	Year         *int           `json:"year"`
	Years        []int          `json:"years"`
	KPIs         analytics.KPIs `json:"kpis"`
	Cards        []charts.Card  `json:"cards"`
	OverallKPIs  analytics.KPIs `json:"overall_kpis"`
	OverallCards []charts.Card  `json:"overall_cards"`
	Charts       charts.Set     `json:"charts"`
	Counts       RowCounts      `json:"counts"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// DashboardService is the shared core behind both front-ends. It owns the
// immutable store and the Year Index computed from it.
type DashboardService struct {
	store    *dataset.Store
	years    []int
	overall  analytics.KPIs
	renderer *charts.Renderer
	metrics  *infrastructure.DashboardMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDashboardService creates the service. metrics and tracer may be nil.
func NewDashboardService(store *dataset.Store, renderer *charts.Renderer, metrics *infrastructure.DashboardMetrics, tracer trace.Tracer, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("dashboard")
	}
	if renderer == nil {
		renderer = charts.NewRenderer(800, 400)
	}
	if store == nil {
		store = dataset.NewStore(nil, nil, nil)
	}

	years := analytics.YearIndex(store.Orders())
	overall := analytics.ComputeKPIs(analytics.All(store))

	logger = logger.With(slog.String("component", "dashboard_service"))
	logger.Info("DashboardService initialized",
		slog.Any("years", years),
		slog.Int64("total_orders", overall.TotalOrderQuantity))

	return &DashboardService{
		store:    store,
		years:    years,
		overall:  overall,
		renderer: renderer,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// Store returns the underlying dataset store
func (s *DashboardService) Store() *dataset.Store {
	return s.store
}

// Years returns a copy of the Year Index
func (s *DashboardService) Years() []int {
	return slices.Clone(s.years)
}

// YearOptions describes the selector: the index, the default selection and its label
func (s *DashboardService) YearOptions() YearOptions {
	opts := YearOptions{Years: s.Years(), Label: NoDataLabel}
	if y, ok := analytics.DefaultYear(s.years); ok {
		opts.Default = &y
		opts.HasData = true
		opts.Label = SelectorLabel
	}
	return opts
}

// Snapshot recomputes views, KPIs and charts for the requested year, or the
// default year when requested is nil. A year absent from the index yields
// empty views, never an error.
func (s *DashboardService) Snapshot(ctx context.Context, requested *int, frontEnd string) *Snapshot {
	ctx, span := s.tracer.Start(ctx, "dashboard.snapshot",
		trace.WithAttributes(attribute.String("frontend", frontEnd)))
	defer span.End()
	start := time.Now()

	snap := &Snapshot{
		Years:        s.Years(),
		OverallKPIs:  s.overall,
		OverallCards: charts.FormatKPIs(s.overall),
		GeneratedAt:  time.Now().UTC(),
	}

	year, ok := analytics.ResolveYear(s.years, requested)
	if !ok {
		snap.Cards = charts.FormatKPIs(snap.KPIs)
		snap.Charts = charts.NoSelection()
		s.record(ctx, span, frontEnd, nil, true, start)
		return snap
	}

	views := analytics.FilterByYear(s.store, year)
	snap.Year = &year
	snap.KPIs = analytics.ComputeKPIs(views)
	snap.Cards = charts.FormatKPIs(snap.KPIs)
	snap.Charts = charts.Build(views)
	snap.Counts = RowCounts{
		Orders:    len(views.Orders),
		Freight:   len(views.Freight),
		Warehouse: len(views.Warehouse),
	}

	s.record(ctx, span, frontEnd, &year, views.Empty(), start)
	return snap
}

func (s *DashboardService) record(ctx context.Context, span trace.Span, frontEnd string, year *int, empty bool, start time.Time) {
	elapsed := time.Since(start)
	s.metrics.RecordRecompute(ctx, frontEnd, empty, elapsed)

	attrs := []any{
		slog.String("frontend", frontEnd),
		slog.Bool("empty", empty),
		slog.Duration("duration", elapsed),
	}
	if year != nil {
		span.SetAttributes(attribute.Int("year", *year))
		attrs = append(attrs, slog.Int("year", *year))
	}
	s.logger.DebugContext(ctx, "dashboard recomputed", attrs...)
}

// Chart returns one chart spec of the selection
func (s *DashboardService) Chart(ctx context.Context, kind charts.Kind, requested *int, frontEnd string) (charts.Spec, error) {
	if _, ok := charts.ParseKind(string(kind)); !ok {
		return charts.Spec{}, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	spec, _ := s.Snapshot(ctx, requested, frontEnd).Charts.Get(kind)
	return spec, nil
}

// RenderChart draws one chart of the selection to w
func (s *DashboardService) RenderChart(ctx context.Context, w io.Writer, kind charts.Kind, format charts.ImageFormat, requested *int) error {
	if _, ok := charts.ParseImageFormat(string(format)); !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	spec, err := s.Chart(ctx, kind, requested, FrontEndCallback)
	if err != nil {
		return err
	}

	_, span := s.tracer.Start(ctx, "dashboard.render_chart", trace.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("format", string(format)),
	))
	defer span.End()

	if err := s.renderer.Render(w, spec, format); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.logger.ErrorContext(ctx, "chart render failed",
			slog.String("kind", string(kind)),
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return err
	}
	s.metrics.RecordChartRender(ctx, string(kind), string(format))
	return nil
}

// ExportViews returns the views selected for download. With no year selected
// and no year requested the views are empty.
func (s *DashboardService) ExportViews(requested *int) analytics.Views {
	year, ok := analytics.ResolveYear(s.years, requested)
	if !ok {
		return analytics.Views{}
	}
	return analytics.FilterByYear(s.store, year)
}

// Export writes the selection in the given format. CSV carries one table
// (table defaults to orders); XLSX carries the KPI sheet and all three tables.
func (s *DashboardService) Export(ctx context.Context, w io.Writer, format exporter.Format, requested *int, table string) error {
	_, span := s.tracer.Start(ctx, "dashboard.export", trace.WithAttributes(attribute.String("format", string(format))))
	defer span.End()

	sheets := exporter.Sheets(s.ExportViews(requested))

	var err error
	switch format {
	case exporter.FormatXLSX:
		err = exporter.EncodeXLSX(w, sheets)
	case exporter.FormatCSV:
		if table == "" {
			table = dataset.TableOrders
		}
		sheet, ok := exporter.SheetByName(sheets, table)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTable, table)
		}
		err = exporter.EncodeCSV(w, sheet, true)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
