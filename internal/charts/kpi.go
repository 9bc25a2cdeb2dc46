package charts

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"logisticsdash/internal/analytics"
)

// Card is one formatted KPI tile
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KPI card labels
const (
	LabelTotalOrders      = "Total Orders"
	LabelTotalCostSavings = "Total Cost Savings"
	LabelAvgWarehouseCost = "Avg Warehouse Cost"
)

var printer = message.NewPrinter(language.English)

// FormatKPIs renders the three KPIs as dashboard cards:
// "7,827", "$1,234.50M" and "$2.00 per unit".
func FormatKPIs(k analytics.KPIs) []Card {
	return []Card{
		{Label: LabelTotalOrders, Value: printer.Sprintf("%d", k.TotalOrderQuantity)},
		{Label: LabelTotalCostSavings, Value: "$" + printer.Sprintf("%.2f", round2(k.TotalCostSavings)) + "M"},
		{Label: LabelAvgWarehouseCost, Value: "$" + k.AverageWarehouseCost.StringFixed(2) + " per unit"},
	}
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
