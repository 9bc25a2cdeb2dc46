package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/shared/testutil"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "data/expanded_orders.csv", want: FormatCSV},
		{path: "orders.TXT", want: FormatCSV},
		{path: "orders.xlsx", want: FormatXLSX},
		{path: "orders.parquet", wantErr: true},
		{path: "orders", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadTable_PresentCSV(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "orders.csv", testutil.SampleOrdersCSV)

	table, err := NewLoader(logger).LoadTable(context.Background(), TableOrders, path, OrderColumns)
	require.NoError(t, err)

	assert.Equal(t, []string{"Order ID", "Order Date", "Unit quantity", "Carrier"}, table.Columns)
	assert.Equal(t, 4, table.Len())
	assert.False(t, table.Missing)
	assert.Equal(t, "2022-05-26", table.Value(0, table.Column(ColOrderDate)))
	assert.Equal(t, "808", table.Value(0, table.Column(ColUnitQuantity)))
}

func TestLoadTable_AbsentFile(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "expanded_freight.csv")

	table, err := NewLoader(logger).LoadTable(context.Background(), TableFreight, path, FreightColumns)
	require.NoError(t, err)

	assert.Equal(t, FreightColumns, table.Columns)
	assert.Zero(t, table.Len())
	assert.True(t, table.Missing)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "dataset file not found, using empty table")
	testutil.AssertNoErrors(t, logs)
}

func TestLoadTable_Edges(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErrIs   error
		wantColumns []string
		wantRows    int
	}{
		{
			name:        "empty file",
			content:     "",
			wantColumns: WarehouseColumns,
		},
		{
			name:        "header only",
			content:     "WH,Cost/unit,Year\n",
			wantColumns: WarehouseColumns,
		},
		{
			name:        "byte order mark",
			content:     "\xEF\xBB\xBFWH,Cost/unit,Year\nPLANT15,1.0,2022\n",
			wantColumns: WarehouseColumns,
			wantRows:    1,
		},
		{
			name:        "ragged rows",
			content:     "WH,Cost/unit,Year\nPLANT15\nPLANT16,1.0,2022,extra\n",
			wantColumns: WarehouseColumns,
			wantRows:    2,
		},
		{
			name:      "missing column",
			content:   "WH,Year\nPLANT15,2022\n",
			wantErrIs: ErrMissingColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			path := testutil.WriteFile(t, t.TempDir(), "wh.csv", tt.content)

			table, err := NewLoader(logger).LoadTable(context.Background(), TableWarehouse, path, WarehouseColumns)
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				var appErr *apierrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apierrors.ErrTypeDataCorrupted, appErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, table.Columns)
			assert.Equal(t, tt.wantRows, table.Len())
		})
	}
}

func TestLoadTable_XLSX(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "freight.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Carrier", "orig_port_cd", "minimum cost", "Year"},
		{"V444_6", "PORT08", 0.5, 2022},
		{},
		{"V444_7", "PORT09", 1.25, 2023},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewLoader(logger).LoadTable(context.Background(), TableFreight, path, FreightColumns)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "PORT09", table.Value(1, table.Column(ColOriginPort)))
	assert.Equal(t, "2023", table.Value(1, table.Column(ColYear)))
}

func TestLoad_XLSXOrderDates(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Order ID", "Order Date", "Unit quantity"},
		{1447296447, time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC), 808},
		{1447363528, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), 1500},
		{1447363529, "2023-01-04", 7},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	store, err := Load(context.Background(), Sources{
		Orders:    path,
		Freight:   filepath.Join(dir, "freight.csv"),
		Warehouse: filepath.Join(dir, "warehouse.csv"),
	}, logger)
	require.NoError(t, err)

	orders := slices.Collect(store.Orders())
	require.Len(t, orders, 3)
	assert.True(t, time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC).Equal(orders[0].Date), "got %s", orders[0].Date)
	assert.True(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC).Equal(orders[1].Date), "got %s", orders[1].Date)
	assert.Equal(t, 4, orders[2].Date.Day())
	assert.Equal(t, int64(808), orders[0].Quantity)
	assert.Equal(t, "1447296447", orders[0].Source[0])
	assert.Equal(t, []string{"Order ID", ColOrderDate, ColUnitQuantity}, store.Columns(TableOrders))
}

func TestLoadTable_CanceledContext(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	var b strings.Builder
	b.WriteString("Order Date,Unit quantity\n")
	for i := 0; i < ctxCheckInterval*2; i++ {
		b.WriteString("2022-01-01,1\n")
	}
	path := testutil.WriteFile(t, t.TempDir(), "orders.csv", b.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(logger).LoadTable(ctx, TableOrders, path, OrderColumns)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTable_Value(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{" x ", "y"}, {"z"}},
	}

	assert.Equal(t, "x", table.Value(0, 0))
	assert.Equal(t, "", table.Value(1, 1))
	assert.Equal(t, "", table.Value(0, -1))
	assert.Equal(t, "", table.Value(5, 0))
	assert.Equal(t, []string{"c"}, table.MissingColumns([]string{"a", "c"}))
	assert.Nil(t, table.MissingColumns([]string{"a", "b"}))
}
