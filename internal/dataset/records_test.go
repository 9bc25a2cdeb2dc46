package dataset

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateParser_Parse(t *testing.T) {
	parser := NewDateParser(nil)

	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{raw: "2022-05-26", want: time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC)},
		{raw: "2022-05-26 13:45:00", want: time.Date(2022, 5, 26, 13, 45, 0, 0, time.UTC)},
		{raw: "2022/05/26", want: time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC)},
		{raw: "5/26/2022", want: time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC)},
		{raw: "05/26/2022", want: time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC)},
		{raw: "", want: time.Time{}},
		{raw: "  ", want: time.Time{}},
		{raw: "yesterday", wantErr: true},
		{raw: "2022-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parser.Parse(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestDateParser_CustomLayouts(t *testing.T) {
	parser := NewDateParser([]string{"02.01.2006"})

	got, err := parser.Parse("26.05.2022")
	require.NoError(t, err)
	assert.Equal(t, 2022, got.Year())

	_, err = parser.Parse("2022-05-26")
	assert.ErrorIs(t, err, ErrMalformedDate)
}

func TestParseOrders(t *testing.T) {
	table := &Table{
		Name:    TableOrders,
		Columns: []string{"Order ID", ColOrderDate, ColUnitQuantity},
		Rows: [][]string{
			{"1", "2022-05-26", "808"},
			{"2", "", "5"},
			{"3", "2023-01-03", "1,500.0"},
			{"4", "2023-01-04", ""},
		},
	}

	orders, err := ParseOrders(table, NewDateParser(nil))
	require.NoError(t, err)
	require.Len(t, orders, 4)

	assert.Equal(t, int64(808), orders[0].Quantity)
	assert.True(t, orders[0].HasDate())
	assert.False(t, orders[1].HasDate())
	assert.Equal(t, int64(1500), orders[2].Quantity)
	assert.Zero(t, orders[3].Quantity)
	assert.Equal(t, []string{"1", "2022-05-26", "808"}, orders[0].Source)
}

func TestDateParser_ParseSerial(t *testing.T) {
	parser := NewDateParser(nil)

	tests := []struct {
		name     string
		raw      string
		date1904 bool
		want     time.Time
		wantErr  bool
	}{
		{name: "serial", raw: "44707", want: time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC)},
		{name: "serial with time", raw: "44707.5", want: time.Date(2022, 5, 26, 12, 0, 0, 0, time.UTC)},
		{name: "1904 serial", raw: "43245", date1904: true, want: time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC)},
		{name: "text date", raw: "2022-05-26", want: time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC)},
		{name: "empty", raw: "", want: time.Time{}},
		{name: "words", raw: "soon", wantErr: true},
		{name: "negative", raw: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseSerial(tt.raw, tt.date1904)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseOrders_XLSXSerialsOnlyForWorkbooks(t *testing.T) {
	rows := [][]string{{"44707", "808"}}

	orders, err := ParseOrders(&Table{Name: TableOrders, Columns: OrderColumns, Rows: rows, Format: FormatXLSX}, NewDateParser(nil))
	require.NoError(t, err)
	assert.Equal(t, 2022, orders[0].Date.Year())

	_, err = ParseOrders(&Table{Name: TableOrders, Columns: OrderColumns, Rows: rows, Format: FormatCSV}, NewDateParser(nil))
	assert.ErrorIs(t, err, ErrMalformedDate)
}

func TestParseOrders_Errors(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		wantErr error
		wantMsg string
	}{
		{name: "bad date", row: []string{"not-a-date", "1"}, wantErr: ErrMalformedDate, wantMsg: "orders line 2"},
		{name: "bad quantity", row: []string{"2022-01-01", "many"}, wantErr: ErrMalformedNumber, wantMsg: `"Unit quantity"`},
		{name: "negative quantity", row: []string{"2022-01-01", "-3"}, wantErr: ErrMalformedNumber},
		{name: "fractional quantity", row: []string{"2022-01-01", "2.5"}, wantErr: ErrMalformedNumber},
		{name: "overflowing quantity", row: []string{"2022-01-01", "1e20"}, wantErr: ErrMalformedNumber, wantMsg: "overflows int64"},
		{name: "overflowing negative quantity", row: []string{"2022-01-01", "-1e19"}, wantErr: ErrMalformedNumber, wantMsg: "overflows int64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &Table{
				Name:    TableOrders,
				Columns: OrderColumns,
				Rows:    [][]string{tt.row},
			}
			_, err := ParseOrders(table, NewDateParser(nil))
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseFreight(t *testing.T) {
	table := &Table{
		Name:    TableFreight,
		Columns: []string{ColOriginPort, ColMinimumCost, ColYear},
		Rows: [][]string{
			{"PORT08", "0.5", "2022"},
			{"PORT09", "$1,234.25", "2022.0"},
			{"PORT04", "", "2023"},
			{"PORT05", "1.0", ""},
		},
	}

	rows, err := ParseFreight(table)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, 2022, rows[0].Year)
	assert.Equal(t, "PORT08", rows[0].OriginPort)
	assert.True(t, rows[0].MinimumCost.Decimal.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, 2022, rows[1].Year)
	assert.True(t, rows[1].MinimumCost.Decimal.Equal(decimal.RequireFromString("1234.25")))
	assert.False(t, rows[2].MinimumCost.Valid)
	assert.Zero(t, rows[3].Year)
}

func TestParseWarehouseCosts(t *testing.T) {
	table := &Table{
		Name:    TableWarehouse,
		Columns: WarehouseColumns,
		Rows: [][]string{
			{"PLANT15", "1.415682", "2022"},
			{"PLANT18", "", "2023"},
		},
	}

	rows, err := ParseWarehouseCosts(table)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PLANT15", rows[0].Warehouse)
	assert.True(t, rows[0].CostPerUnit.Valid)
	assert.False(t, rows[1].CostPerUnit.Valid)

	table.Rows = append(table.Rows, []string{"PLANT19", "cheap", "2023"})
	_, err = ParseWarehouseCosts(table)
	require.ErrorIs(t, err, ErrMalformedNumber)
	assert.Contains(t, err.Error(), "warehouse line 4")

	table.Rows = [][]string{{"PLANT19", "1.0", "2023.5"}}
	_, err = ParseWarehouseCosts(table)
	assert.ErrorIs(t, err, ErrMalformedNumber)
}
