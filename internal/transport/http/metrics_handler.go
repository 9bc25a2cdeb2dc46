package http

import (
	"log/slog"
	"net/http"

	apierrors "logisticsdash/internal/errors"
)

// MetricsHandler exposes the Prometheus scrape endpoint of the OTel meter provider
type MetricsHandler struct {
	scrape       http.Handler
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler wraps the exporter handler. scrape is nil when metrics are disabled.
func NewMetricsHandler(scrape http.Handler, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{
		scrape:       scrape,
		logger:       logger.With(slog.String("handler", "metrics")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.scrape == nil {
		h.logger.DebugContext(r.Context(), "metrics scrape while metrics are disabled")
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "metrics are disabled"))
		return
	}
	h.scrape.ServeHTTP(w, r)
}
