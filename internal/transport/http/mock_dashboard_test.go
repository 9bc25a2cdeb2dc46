package http

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"logisticsdash/internal/charts"
	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/exporter"
	"logisticsdash/internal/middleware"
	"logisticsdash/internal/services"
	"logisticsdash/internal/shared/testutil"
)

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) YearOptions() services.YearOptions {
	return m.Called().Get(0).(services.YearOptions)
}

func (m *MockDashboardService) Snapshot(ctx context.Context, requested *int, frontEnd string) *services.Snapshot {
	return m.Called(requested, frontEnd).Get(0).(*services.Snapshot)
}

func (m *MockDashboardService) RenderChart(ctx context.Context, w io.Writer, kind charts.Kind, format charts.ImageFormat, requested *int) error {
	return m.Called(w, kind, format, requested).Error(0)
}

func (m *MockDashboardService) Export(ctx context.Context, w io.Writer, format exporter.Format, requested *int, table string) error {
	return m.Called(w, format, requested, table).Error(0)
}

// writeBody makes a mocked RenderChart or Export write body to its writer argument
func writeBody(body string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		io.WriteString(args.Get(0).(io.Writer), body)
	}
}

func intPtr(v int) *int { return &v }

func newDashboardRouter(t *testing.T, svc DashboardService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.Mount("/api", NewDashboardHandler(svc, middleware.NewValidator(), logger, errorHandler).Routes())
	return r
}
