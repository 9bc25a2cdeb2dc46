package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsdash/internal/analytics"
	"logisticsdash/internal/dataset"
	apierrors "logisticsdash/internal/errors"
)

func sampleViews() analytics.Views {
	return analytics.Views{
		Year: 2022,
		Orders: []dataset.Order{
			{Date: time.Date(2022, 5, 26, 0, 0, 0, 0, time.UTC), Quantity: 808},
			{Date: time.Date(2022, 5, 27, 0, 0, 0, 0, time.UTC), Quantity: 2331},
		},
		Freight: []dataset.Freight{
			{Year: 2022, OriginPort: "PORT08", MinimumCost: decimal.NewNullDecimal(decimal.RequireFromString("0.5"))},
		},
		Warehouse: []dataset.WarehouseCost{},
	}
}

func TestBuild(t *testing.T) {
	set := Build(sampleViews())

	assert.Equal(t, "Order Fulfillment in 2022", set.Orders.Title)
	assert.Equal(t, "Units Shipped", set.Orders.YLabel)
	assert.Equal(t, "Order Date", set.Orders.XLabel)
	assert.Len(t, set.Orders.Bars, 2)
	assert.False(t, set.Orders.Empty)

	assert.Equal(t, "Freight Costs by Origin Port in 2022", set.Freight.Title)
	assert.Equal(t, "Cost ($)", set.Freight.YLabel)
	require.Len(t, set.Freight.Bars, 1)
	assert.Equal(t, "PORT08", set.Freight.Bars[0].Label)

	assert.Equal(t, NoWarehouseCostData, set.Warehouse.Title)
	assert.Equal(t, "Storage Cost ($)", set.Warehouse.YLabel)
	assert.True(t, set.Warehouse.Empty)
	assert.NotNil(t, set.Warehouse.Bars)
}

func TestBuild_EmptyViews(t *testing.T) {
	set := Build(analytics.Views{Year: 1999})
	assert.Equal(t, []string{NoOrdersData, NoFreightData, NoWarehouseCostData},
		[]string{set.Orders.Title, set.Freight.Title, set.Warehouse.Title})
	for _, spec := range set.All() {
		assert.True(t, spec.Empty, spec.Kind)
	}
}

func TestNoSelection(t *testing.T) {
	for _, spec := range NoSelection().All() {
		assert.Equal(t, NoDataAvailable, spec.Title)
		assert.True(t, spec.Empty)
	}
}

func TestSetGetAndParseKind(t *testing.T) {
	set := Build(sampleViews())
	for _, kind := range Kinds {
		spec, ok := set.Get(kind)
		require.True(t, ok)
		assert.Equal(t, kind, spec.Kind)

		parsed, ok := ParseKind(string(kind))
		assert.True(t, ok)
		assert.Equal(t, kind, parsed)
	}

	_, ok := set.Get("pie")
	assert.False(t, ok)
	_, ok = ParseKind("pie")
	assert.False(t, ok)
}

func TestRenderer_Render(t *testing.T) {
	renderer := NewRenderer(640, 320)
	set := Build(sampleViews())

	tests := []struct {
		name   string
		spec   Spec
		format ImageFormat
		prefix []byte
	}{
		{name: "svg chart", spec: set.Orders, format: FormatSVG, prefix: []byte("<svg")},
		{name: "png chart", spec: set.Freight, format: FormatPNG, prefix: []byte("\x89PNG")},
		{name: "svg placeholder", spec: set.Warehouse, format: FormatSVG, prefix: []byte("<svg")},
		{name: "png no selection", spec: NoSelection().Orders, format: FormatPNG, prefix: []byte("\x89PNG")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderer.Render(&buf, tt.spec, tt.format))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), tt.prefix), "unexpected image header")
		})
	}
}

func TestRenderer_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(0, 0).Render(&buf, NoSelection().Orders, "gif")

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeRender, appErr.Type)
	assert.Zero(t, buf.Len())
}

func TestImageFormat(t *testing.T) {
	f, ok := ParseImageFormat("png")
	assert.True(t, ok)
	assert.Equal(t, "image/png", f.ContentType())
	assert.Equal(t, "image/svg+xml", FormatSVG.ContentType())

	_, ok = ParseImageFormat("jpeg")
	assert.False(t, ok)
}

func TestFormatKPIs(t *testing.T) {
	tests := []struct {
		name string
		kpis analytics.KPIs
		want []string
	}{
		{
			name: "zero",
			want: []string{"0", "$0.00M", "$0.00 per unit"},
		},
		{
			name: "grouped",
			kpis: analytics.KPIs{
				TotalOrderQuantity:   7827,
				TotalCostSavings:     decimal.RequireFromString("1234.5"),
				AverageWarehouseCost: decimal.RequireFromString("1.843682"),
			},
			want: []string{"7,827", "$1,234.50M", "$1.84 per unit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := FormatKPIs(tt.kpis)
			require.Len(t, cards, 3)
			assert.Equal(t, LabelTotalOrders, cards[0].Label)
			assert.Equal(t, LabelTotalCostSavings, cards[1].Label)
			assert.Equal(t, LabelAvgWarehouseCost, cards[2].Label)
			assert.Equal(t, tt.want, []string{cards[0].Value, cards[1].Value, cards[2].Value})
		})
	}
}
