package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"logisticsdash/internal/charts"
	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/middleware"
	"logisticsdash/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	pageOverview = "overview.html"
	pageChart    = "chart.html"
	pageLive     = "live.html"
)

// pageData is the model shared by every page template
type pageData struct {
	Title        string
	Options      services.YearOptions
	SelectedYear int
	Query        template.URL
	TableQuery   template.URL
	Table        string
	Kinds        []charts.Kind
	Snapshot     *services.Snapshot
	Chart        charts.Spec
}

// PageHandler serves the server-rendered multi-page front-end and the live page
type PageHandler struct {
	service      DashboardService
	query        *middleware.QueryParamValidator
	pages        map[string]*template.Template
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler parses the embedded templates
func NewPageHandler(service DashboardService, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) (*PageHandler, error) {
	pages := make(map[string]*template.Template, 3)
	for _, name := range []string{pageOverview, pageChart, pageLive} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &PageHandler{
		service:      service,
		query:        middleware.NewQueryParamValidator(validator, logger, errorHandler),
		pages:        pages,
		logger:       logger.With(slog.String("handler", "pages")),
		errorHandler: errorHandler,
	}, nil
}

// Routes returns the page routes mounted at /
func (h *PageHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Overview)
	for _, kind := range charts.Kinds {
		r.Get("/"+string(kind), h.ChartPage(kind))
	}
	r.Get("/live", h.Live)
	return r
}

// Overview handles GET /?year=
func (h *PageHandler) Overview(w http.ResponseWriter, r *http.Request) {
	year, ok := h.query.ValidateYear(w, r)
	if !ok {
		return
	}

	snap := h.service.Snapshot(r.Context(), year, services.FrontEndCallback)
	data := h.newPageData("Overview", snap.Year)
	data.Snapshot = snap
	data.Kinds = charts.Kinds

	h.render(w, r, pageOverview, data)
}

// ChartPage handles GET /orders, /freight and /warehouse
func (h *PageHandler) ChartPage(kind charts.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, ok := h.query.ValidateYear(w, r)
		if !ok {
			return
		}

		snap := h.service.Snapshot(r.Context(), year, services.FrontEndCallback)
		spec, _ := snap.Charts.Get(kind)

		data := h.newPageData(spec.Title, snap.Year)
		data.Snapshot = snap
		data.Chart = spec
		data.Table = string(kind)
		data.TableQuery = selectionQuery(snap.Year, data.Table)

		h.render(w, r, pageChart, data)
	}
}

// Live handles GET /live. The page opens /ws and redraws on every snapshot message.
func (h *PageHandler) Live(w http.ResponseWriter, r *http.Request) {
	opts := h.service.YearOptions()
	h.render(w, r, pageLive, h.newPageData("Live", opts.Default))
}

func (h *PageHandler) newPageData(title string, year *int) pageData {
	data := pageData{
		Title:   title,
		Options: h.service.YearOptions(),
		Query:   selectionQuery(year, ""),
	}
	if year != nil {
		data.SelectedYear = *year
	}
	return data
}

// render executes into a buffer so template errors still produce a problem response
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, page string, data pageData) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			slog.String("page", page),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewRenderError("failed to render page", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write page", slog.String("error", err.Error()))
	}
}

// selectionQuery builds "?year=2022&table=orders" style query strings; empty when nothing is selected
func selectionQuery(year *int, table string) template.URL {
	values := url.Values{}
	if year != nil {
		values.Set("year", strconv.Itoa(*year))
	}
	if table != "" {
		values.Set("table", table)
	}
	if len(values) == 0 {
		return ""
	}
	return template.URL("?" + values.Encode())
}
