package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsdash/internal/charts"
	"logisticsdash/internal/dataset"
	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/middleware"
	"logisticsdash/internal/services"
	"logisticsdash/internal/shared/testutil"
)

func newPageRouter(t *testing.T, store *dataset.Store) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewDashboardService(store, charts.NewRenderer(400, 300), nil, nil, logger)

	pages, err := NewPageHandler(svc, middleware.NewValidator(), logger, apierrors.NewErrorHandler(logger, false))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/", pages.Routes())
	return r
}

func sampleStore(t *testing.T) *dataset.Store {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	files := testutil.WriteSampleDataset(t)
	store, err := dataset.Load(context.Background(), dataset.Sources{
		Orders:    files.Orders,
		Freight:   files.Freight,
		Warehouse: files.Warehouse,
	}, logger)
	require.NoError(t, err)
	return store
}

func TestPageHandler_Pages(t *testing.T) {
	router := newPageRouter(t, sampleStore(t))

	tests := []struct {
		name     string
		path     string
		contains []string
	}{
		{
			name: "overview default year",
			path: "/",
			contains: []string{
				"Filter by Year:",
				`<option value="2022" selected>2022</option>`,
				"Total Orders",
				"7,827",
				"6,327",
				`src="/api/charts/orders.svg?year=2022"`,
				`href="/api/export/xlsx?year=2022"`,
			},
		},
		{
			name: "overview selected year",
			path: "/?year=2023",
			contains: []string{
				`<option value="2023" selected>2023</option>`,
				"1,500",
				"$3.00 per unit",
			},
		},
		{
			name: "freight page",
			path: "/freight?year=2022",
			contains: []string{
				"Freight Costs by Origin Port in 2022",
				"<th>orig_port_cd</th>",
				"<td>PORT09</td>",
				`href="/api/export/csv?table=freight&amp;year=2022"`,
			},
		},
		{
			name: "warehouse page for a year without data",
			path: "/warehouse?year=1999",
			contains: []string{
				charts.NoWarehouseCostData,
			},
		},
		{
			name:     "live page",
			path:     "/live",
			contains: []string{`new WebSocket(`, `<option value="2022" selected>2022</option>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
			for _, want := range tt.contains {
				assert.Contains(t, w.Body.String(), want)
			}
		})
	}
}

func TestPageHandler_NoData(t *testing.T) {
	router := newPageRouter(t, dataset.NewStore(nil, nil, nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<p>No data available</p>")
	assert.NotContains(t, body, "<select")
	assert.Contains(t, body, `src="/api/charts/orders.svg"`)
}

func TestPageHandler_InvalidYear(t *testing.T) {
	router := newPageRouter(t, sampleStore(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?year=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ProblemContentType, w.Header().Get("Content-Type"))
}

func TestSelectionQuery(t *testing.T) {
	assert.Equal(t, "", string(selectionQuery(nil, "")))
	assert.Equal(t, "?year=2022", string(selectionQuery(intPtr(2022), "")))
	assert.Equal(t, "?table=orders&year=2022", string(selectionQuery(intPtr(2022), "orders")))
}
