package analytics

import (
	"github.com/shopspring/decimal"
)

// KPIs are the three headline metrics of a set of views
type KPIs struct {
	TotalOrderQuantity   int64           `json:"total_order_quantity"`
	TotalCostSavings     decimal.Decimal `json:"total_cost_savings"`
	AverageWarehouseCost decimal.Decimal `json:"average_warehouse_cost"`
}

// ComputeKPIs sums order quantities and reduces the valid Cost/unit values to
// their sum ("cost savings") and mean. Missing cells are skipped; with no
// valid values both cost figures are zero.
func ComputeKPIs(v Views) KPIs {
	var k KPIs
	for _, o := range v.Orders {
		k.TotalOrderQuantity += o.Quantity
	}

	sum := decimal.Zero
	n := 0
	for _, w := range v.Warehouse {
		if !w.CostPerUnit.Valid {
			continue
		}
		sum = sum.Add(w.CostPerUnit.Decimal)
		n++
	}
	k.TotalCostSavings = sum
	k.AverageWarehouseCost = decimal.Zero
	if n > 0 {
		k.AverageWarehouseCost = sum.Div(decimal.NewFromInt(int64(n)))
	}
	return k
}
