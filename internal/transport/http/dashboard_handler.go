package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"logisticsdash/internal/charts"
	"logisticsdash/internal/dataset"
	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/exporter"
	"logisticsdash/internal/middleware"
	"logisticsdash/internal/services"
)

// DashboardService is the part of the dashboard core the HTTP handlers use
type DashboardService interface {
	YearOptions() services.YearOptions
	Snapshot(ctx context.Context, requested *int, frontEnd string) *services.Snapshot
	RenderChart(ctx context.Context, w io.Writer, kind charts.Kind, format charts.ImageFormat, requested *int) error
	Export(ctx context.Context, w io.Writer, format exporter.Format, requested *int, table string) error
}

// DashboardHandler serves the JSON callbacks, chart images and exports
type DashboardHandler struct {
	service      DashboardService
	validator    *middleware.Validator
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardService, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		query:        middleware.NewQueryParamValidator(validator, logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// chartRequest is the validated form of /api/charts/{kind}.{format}
type chartRequest struct {
	Kind   string `json:"kind" validate:"chartkind"`
	Format string `json:"format" validate:"imageformat"`
}

// exportRequest is the validated form of /api/export/{format}
type exportRequest struct {
	Format string `json:"format" validate:"exportformat"`
	Table  string `json:"table" validate:"omitempty,oneof=kpis orders freight warehouse"`
}

// Routes returns the dashboard API routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/years", h.GetYears)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/dashboard", h.GetDashboard)
	r.Get("/charts/{kind}.{format}", h.GetChartImage)
	r.Get("/export/{format}", h.Export)

	return r
}

// GetYears handles GET /api/years
func (h *DashboardHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.YearOptions())
}

// GetDashboard handles GET /api/dashboard?year=
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	year, ok := h.query.ValidateYear(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, h.service.Snapshot(r.Context(), year, services.FrontEndCallback))
}

// GetChartImage handles GET /api/charts/{kind}.{format}?year=
func (h *DashboardHandler) GetChartImage(w http.ResponseWriter, r *http.Request) {
	req := chartRequest{
		Kind:   chi.URLParam(r, "kind"),
		Format: chi.URLParam(r, "format"),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	year, ok := h.query.ValidateYear(w, r)
	if !ok {
		return
	}

	format := charts.ImageFormat(req.Format)
	var buf bytes.Buffer
	if err := h.service.RenderChart(r.Context(), &buf, charts.Kind(req.Kind), format, year); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write chart image", slog.String("error", err.Error()))
	}
}

// Export handles GET /api/export/{format}?year=&table=
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := exportRequest{
		Format: chi.URLParam(r, "format"),
		Table:  r.URL.Query().Get("table"),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	year, ok := h.query.ValidateYear(w, r)
	if !ok {
		return
	}

	format := exporter.Format(req.Format)
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), &buf, format, year, req.Table); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName(year, format, req.Table)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", slog.String("error", err.Error()))
	}

	h.logger.InfoContext(r.Context(), "export served",
		slog.String("format", req.Format),
		slog.String("table", req.Table))
}

// handleServiceError maps dashboard service errors to problem responses
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownChart):
		h.errorHandler.HandleError(w, r, apierrors.UnknownChartError(chi.URLParam(r, "kind")))
	case errors.Is(err, services.ErrUnsupportedFormat):
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormatError(chi.URLParam(r, "format")))
	case errors.Is(err, services.ErrUnknownTable):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("table", err.Error()))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

func exportFileName(year *int, format exporter.Format, table string) string {
	name := "logistics"
	if year != nil {
		name += "_" + strconv.Itoa(*year)
	}
	if format == exporter.FormatCSV {
		if table == "" {
			table = dataset.TableOrders
		}
		name += "_" + table
	}
	return name + "." + string(format)
}
