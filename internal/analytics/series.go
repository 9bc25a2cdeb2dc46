package analytics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"logisticsdash/internal/dataset"
)

// Point is one bar of a chart series
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// DateLayout formats the x-axis labels of the orders series
const DateLayout = "2006-01-02"

// OrdersByDate sums units per calendar day, ascending by date
func OrdersByDate(orders []dataset.Order) []Point {
	totals := make(map[time.Time]int64)
	days := []time.Time{}
	for _, o := range orders {
		if !o.HasDate() {
			continue
		}
		day := time.Date(o.Date.Year(), o.Date.Month(), o.Date.Day(), 0, 0, 0, 0, time.UTC)
		if _, ok := totals[day]; !ok {
			days = append(days, day)
		}
		totals[day] += o.Quantity
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	points := make([]Point, 0, len(days))
	for _, d := range days {
		points = append(points, Point{Label: d.Format(DateLayout), Value: decimal.NewFromInt(totals[d])})
	}
	return points
}

// FreightByPort sums minimum cost per origin port in first-appearance order
func FreightByPort(rows []dataset.Freight) []Point {
	g := newGrouper()
	for _, f := range rows {
		g.add(f.OriginPort, f.MinimumCost)
	}
	return g.points()
}

// WarehouseByID sums Cost/unit per warehouse in first-appearance order
func WarehouseByID(rows []dataset.WarehouseCost) []Point {
	g := newGrouper()
	for _, w := range rows {
		g.add(w.Warehouse, w.CostPerUnit)
	}
	return g.points()
}

// grouper sums values per key, remembering the order keys were first seen.
// A key whose values are all missing still gets a zero bar.
type grouper struct {
	order  []string
	totals map[string]decimal.Decimal
}

func newGrouper() *grouper {
	return &grouper{totals: make(map[string]decimal.Decimal)}
}

func (g *grouper) add(key string, value decimal.NullDecimal) {
	total, ok := g.totals[key]
	if !ok {
		g.order = append(g.order, key)
		total = decimal.Zero
	}
	if value.Valid {
		total = total.Add(value.Decimal)
	}
	g.totals[key] = total
}

func (g *grouper) points() []Point {
	points := make([]Point, 0, len(g.order))
	for _, key := range g.order {
		points = append(points, Point{Label: key, Value: g.totals[key]})
	}
	return points
}
