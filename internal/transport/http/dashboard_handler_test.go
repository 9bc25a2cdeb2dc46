package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"logisticsdash/internal/charts"
	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/exporter"
	"logisticsdash/internal/services"
)

func TestDashboardHandler_GetYears(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("YearOptions").Return(services.YearOptions{
		Years:   []int{2022, 2023},
		Default: intPtr(2022),
		HasData: true,
		Label:   services.SelectorLabel,
	})

	w := httptest.NewRecorder()
	newDashboardRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/years", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"years":[2022,2023],"default":2022,"has_data":true,"label":"Filter by Year:"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockDashboardService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "default selection",
			query: "",
			setupMock: func(m *MockDashboardService) {
				m.On("Snapshot", (*int)(nil), services.FrontEndCallback).Return(&services.Snapshot{Year: intPtr(2022)})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"year":2022`,
		},
		{
			name:  "explicit year",
			query: "?year=2023",
			setupMock: func(m *MockDashboardService) {
				m.On("Snapshot", intPtr(2023), services.FrontEndCallback).Return(&services.Snapshot{Year: intPtr(2023)})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"year":2023`,
		},
		{
			name:           "year is not a number",
			query:          "?year=twenty",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"VALIDATION_FAILED"`,
		},
		{
			name:           "year out of range",
			query:          "?year=10000",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `year must be at most 9999`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, apierrors.ProblemContentType, w.Header().Get("Content-Type"))
				svc.AssertNotCalled(t, "Snapshot", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDashboardHandler_GetChartImage(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockDashboardService)
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{
			name: "svg for a year",
			path: "/api/charts/orders.svg?year=2022",
			setupMock: func(m *MockDashboardService) {
				m.On("RenderChart", mock.Anything, charts.KindOrders, charts.FormatSVG, intPtr(2022)).
					Run(writeBody("<svg></svg>")).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedType:   "image/svg+xml",
			expectedBody:   "<svg></svg>",
		},
		{
			name: "png default selection",
			path: "/api/charts/warehouse.png",
			setupMock: func(m *MockDashboardService) {
				m.On("RenderChart", mock.Anything, charts.KindWarehouse, charts.FormatPNG, (*int)(nil)).
					Run(writeBody("\x89PNG")).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedType:   "image/png",
			expectedBody:   "\x89PNG",
		},
		{
			name:           "unknown chart",
			path:           "/api/charts/pie.svg",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.ProblemContentType,
			expectedBody:   "kind must be one of: orders, freight, warehouse",
		},
		{
			name:           "unsupported image format",
			path:           "/api/charts/freight.gif",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   apierrors.ProblemContentType,
			expectedBody:   "format must be one of: svg, png",
		},
		{
			name: "service reports unknown chart",
			path: "/api/charts/freight.svg",
			setupMock: func(m *MockDashboardService) {
				m.On("RenderChart", mock.Anything, charts.KindFreight, charts.FormatSVG, (*int)(nil)).
					Return(services.ErrUnknownChart)
			},
			expectedStatus: http.StatusNotFound,
			expectedType:   apierrors.ProblemContentType,
			expectedBody:   `"CHART_NOT_FOUND"`,
		},
		{
			name: "render failure",
			path: "/api/charts/freight.png",
			setupMock: func(m *MockDashboardService) {
				m.On("RenderChart", mock.Anything, charts.KindFreight, charts.FormatPNG, (*int)(nil)).
					Run(writeBody("partial")).
					Return(apierrors.NewRenderError("failed to render chart", assert.AnError))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   apierrors.ProblemContentType,
			expectedBody:   "Rendering Failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			assert.NotContains(t, w.Body.String(), "partial")
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_Export(t *testing.T) {
	tests := []struct {
		name                string
		path                string
		setupMock           func(*MockDashboardService)
		expectedStatus      int
		expectedDisposition string
	}{
		{
			name: "csv table for a year",
			path: "/api/export/csv?year=2022&table=freight",
			setupMock: func(m *MockDashboardService) {
				m.On("Export", mock.Anything, exporter.FormatCSV, intPtr(2022), "freight").
					Run(writeBody("a,b\n")).Return(nil)
			},
			expectedStatus:      http.StatusOK,
			expectedDisposition: `attachment; filename="logistics_2022_freight.csv"`,
		},
		{
			name: "csv defaults to orders",
			path: "/api/export/csv",
			setupMock: func(m *MockDashboardService) {
				m.On("Export", mock.Anything, exporter.FormatCSV, (*int)(nil), "").
					Run(writeBody("a,b\n")).Return(nil)
			},
			expectedStatus:      http.StatusOK,
			expectedDisposition: `attachment; filename="logistics_orders.csv"`,
		},
		{
			name: "xlsx workbook",
			path: "/api/export/xlsx?year=2023",
			setupMock: func(m *MockDashboardService) {
				m.On("Export", mock.Anything, exporter.FormatXLSX, intPtr(2023), "").
					Run(writeBody("PK")).Return(nil)
			},
			expectedStatus:      http.StatusOK,
			expectedDisposition: `attachment; filename="logistics_2023.xlsx"`,
		},
		{
			name:           "unsupported format",
			path:           "/api/export/pdf",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown table",
			path:           "/api/export/csv?table=customers",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service rejects table",
			path: "/api/export/csv?table=kpis",
			setupMock: func(m *MockDashboardService) {
				m.On("Export", mock.Anything, exporter.FormatCSV, (*int)(nil), "kpis").
					Return(services.ErrUnknownTable)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			newDashboardRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedDisposition, w.Header().Get("Content-Disposition"))
			svc.AssertExpectations(t)
		})
	}
}
