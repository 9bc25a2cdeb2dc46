package charts

import (
	"fmt"

	"logisticsdash/internal/analytics"
	"logisticsdash/internal/dataset"
)

// Kind identifies one of the three dashboard charts
type Kind string

const (
	KindOrders    Kind = "orders"
	KindFreight   Kind = "freight"
	KindWarehouse Kind = "warehouse"
)

// Kinds lists the charts in page order
var Kinds = []Kind{KindOrders, KindFreight, KindWarehouse}

// ParseKind validates a chart name taken from a URL or message
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Placeholder titles for empty charts
const (
	NoDataAvailable      = "No Data Available"
	NoOrdersData         = "No Orders Data"
	NoFreightData        = "No Freight Data"
	NoWarehouseCostData  = "No Warehouse Cost Data"
	ordersTitleFormat    = "Order Fulfillment in %d"
	freightTitleFormat   = "Freight Costs by Origin Port in %d"
	warehouseTitleFormat = "Warehouse Cost Per Unit in %d"
)

// Spec is a renderer-independent bar chart description
type Spec struct {
	Kind   Kind              `json:"kind"`
	Title  string            `json:"title"`
	XLabel string            `json:"x_label"`
	YLabel string            `json:"y_label"`
	Bars   []analytics.Point `json:"bars"`
	// Empty charts carry the placeholder as their title and no bars
	Empty bool `json:"empty"`
}

// Set holds the three charts of one selection
type Set struct {
	Orders    Spec `json:"orders"`
	Freight   Spec `json:"freight"`
	Warehouse Spec `json:"warehouse"`
}

// Get returns the chart of the given kind
func (s Set) Get(kind Kind) (Spec, bool) {
	switch kind {
	case KindOrders:
		return s.Orders, true
	case KindFreight:
		return s.Freight, true
	case KindWarehouse:
		return s.Warehouse, true
	}
	return Spec{}, false
}

// All returns the charts in page order
func (s Set) All() []Spec {
	return []Spec{s.Orders, s.Freight, s.Warehouse}
}

// Build turns year-filtered views into the three chart specs
func Build(v analytics.Views) Set {
	set := Set{
		Orders:    base(KindOrders),
		Freight:   base(KindFreight),
		Warehouse: base(KindWarehouse),
	}

	if len(v.Orders) == 0 {
		set.Orders = placeholder(set.Orders, NoOrdersData)
	} else {
		set.Orders.Title = fmt.Sprintf(ordersTitleFormat, v.Year)
		set.Orders.Bars = analytics.OrdersByDate(v.Orders)
	}

	if len(v.Freight) == 0 {
		set.Freight = placeholder(set.Freight, NoFreightData)
	} else {
		set.Freight.Title = fmt.Sprintf(freightTitleFormat, v.Year)
		set.Freight.Bars = analytics.FreightByPort(v.Freight)
	}

	if len(v.Warehouse) == 0 {
		set.Warehouse = placeholder(set.Warehouse, NoWarehouseCostData)
	} else {
		set.Warehouse.Title = fmt.Sprintf(warehouseTitleFormat, v.Year)
		set.Warehouse.Bars = analytics.WarehouseByID(v.Warehouse)
	}

	return set
}

// NoSelection is shown when there is no year to select
func NoSelection() Set {
	return Set{
		Orders:    placeholder(base(KindOrders), NoDataAvailable),
		Freight:   placeholder(base(KindFreight), NoDataAvailable),
		Warehouse: placeholder(base(KindWarehouse), NoDataAvailable),
	}
}

func base(kind Kind) Spec {
	switch kind {
	case KindOrders:
		return Spec{Kind: kind, XLabel: dataset.ColOrderDate, YLabel: "Units Shipped"}
	case KindFreight:
		return Spec{Kind: kind, XLabel: dataset.ColOriginPort, YLabel: "Cost ($)"}
	default:
		return Spec{Kind: kind, XLabel: dataset.ColWarehouse, YLabel: "Storage Cost ($)"}
	}
}

func placeholder(s Spec, title string) Spec {
	s.Title = title
	s.Bars = []analytics.Point{}
	s.Empty = true
	return s
}
