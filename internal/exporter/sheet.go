package exporter

import (
	"strings"

	"logisticsdash/internal/analytics"
	"logisticsdash/internal/charts"
	"logisticsdash/internal/dataset"
)

// SheetKPIs names the KPI summary sheet
const SheetKPIs = "kpis"

// Sheet is one exported table. Cells keep their typed values so each encoder
// can write them natively.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Sheets returns the KPI summary followed by the three table views
func Sheets(v analytics.Views) []Sheet {
	return []Sheet{
		KPISheet(v.Year, analytics.ComputeKPIs(v)),
		OrdersSheet(v.Columns.Orders, v.Orders),
		FreightSheet(v.Columns.Freight, v.Freight),
		WarehouseSheet(v.Columns.Warehouse, v.Warehouse),
	}
}

// SheetByName finds a sheet by name
func SheetByName(sheets []Sheet, name string) (Sheet, bool) {
	for _, s := range sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// SheetNames lists the sheet names Sheets produces
func SheetNames() []string {
	return []string{SheetKPIs, dataset.TableOrders, dataset.TableFreight, dataset.TableWarehouse}
}

// KPISheet holds the raw KPI values of a selection
func KPISheet(year int, k analytics.KPIs) Sheet {
	return Sheet{
		Name:    SheetKPIs,
		Headers: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Year", year},
			{charts.LabelTotalOrders, k.TotalOrderQuantity},
			{charts.LabelTotalCostSavings, k.TotalCostSavings},
			{charts.LabelAvgWarehouseCost, k.AverageWarehouseCost},
		},
	}
}

// OrdersSheet exports order rows with every source column. Date and quantity
// cells carry their typed values.
func OrdersSheet(columns []string, orders []dataset.Order) Sheet {
	columns = sheetColumns(columns, dataset.OrderColumns)
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, sourceRow(columns, o.Source, map[string]any{
			dataset.ColOrderDate:    o.Date,
			dataset.ColUnitQuantity: o.Quantity,
		}))
	}
	return Sheet{Name: dataset.TableOrders, Headers: columns, Rows: rows}
}

// FreightSheet exports freight rows with every source column
func FreightSheet(columns []string, freight []dataset.Freight) Sheet {
	columns = sheetColumns(columns, dataset.FreightColumns)
	rows := make([][]any, 0, len(freight))
	for _, f := range freight {
		rows = append(rows, sourceRow(columns, f.Source, map[string]any{
			dataset.ColYear:        f.Year,
			dataset.ColOriginPort:  f.OriginPort,
			dataset.ColMinimumCost: f.MinimumCost,
		}))
	}
	return Sheet{Name: dataset.TableFreight, Headers: columns, Rows: rows}
}

// WarehouseSheet exports warehouse cost rows with every source column
func WarehouseSheet(columns []string, costs []dataset.WarehouseCost) Sheet {
	columns = sheetColumns(columns, dataset.WarehouseColumns)
	rows := make([][]any, 0, len(costs))
	for _, w := range costs {
		rows = append(rows, sourceRow(columns, w.Source, map[string]any{
			dataset.ColWarehouse:   w.Warehouse,
			dataset.ColCostPerUnit: w.CostPerUnit,
			dataset.ColYear:        w.Year,
		}))
	}
	return Sheet{Name: dataset.TableWarehouse, Headers: columns, Rows: rows}
}

func sheetColumns(columns, typed []string) []string {
	if len(columns) == 0 {
		return typed
	}
	return columns
}

// sourceRow lays a record out in header order. Typed values win over the raw
// cells; columns past the end of a short row are empty.
func sourceRow(columns, source []string, typed map[string]any) []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		if v, ok := typed[c]; ok {
			row[i] = v
			continue
		}
		if i < len(source) {
			row[i] = strings.TrimSpace(source[i])
		}
	}
	return row
}
