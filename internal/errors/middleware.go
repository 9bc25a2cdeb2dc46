package errors

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestObserver receives one call per finished request. route is the chi
// route pattern, so observers never see unbounded raw paths.
type RequestObserver func(r *http.Request, route string, status int, duration time.Duration)

// ErrorMiddleware logs every request at a level derived from its status and
// turns panics into problem responses.
type ErrorMiddleware struct {
	handler   *ErrorHandler
	logger    *slog.Logger
	observers []RequestObserver
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(handler *ErrorHandler, logger *slog.Logger, observers ...RequestObserver) *ErrorMiddleware {
	return &ErrorMiddleware{
		handler:   handler,
		logger:    logger.With(slog.String("component", "error_middleware")),
		observers: observers,
	}
}

// Handler returns the middleware handler function
func (m *ErrorMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				m.handler.HandlePanic(ww, r, err)
			}
			m.finish(ww, r, start)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (m *ErrorMiddleware) finish(ww middleware.WrapResponseWriter, r *http.Request, start time.Time) {
	duration := time.Since(start)
	status := ww.Status()
	if status == 0 {
		// handler wrote nothing, net/http will send 200
		status = http.StatusOK
	}

	logLevel := slog.LevelInfo
	if status >= 400 && status < 500 {
		logLevel = slog.LevelWarn
	} else if status >= 500 {
		logLevel = slog.LevelError
	}

	route := routePattern(r)
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("route", route),
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.Int("bytes", ww.BytesWritten()),
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("user_agent", r.UserAgent()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, slog.String("query", r.URL.RawQuery))
	}

	m.logger.LogAttrs(r.Context(), logLevel, "http request", attrs...)

	for _, observe := range m.observers {
		observe(r, route, status, duration)
	}
}

// routePattern returns the matched chi pattern or "unmatched"
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// RecoveryMiddleware provides panic recovery with proper error responses
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					handler.HandlePanic(w, r, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
