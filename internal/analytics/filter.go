package analytics

import (
	"logisticsdash/internal/dataset"
)

// Views are the three tables restricted to one selection.
// Year is 0 for the unfiltered views returned by All.
type Views struct {
	Year      int
	Orders    []dataset.Order
	Freight   []dataset.Freight
	Warehouse []dataset.WarehouseCost
	Columns   Columns
}

// Columns are the source headers of the three tables. Nil means only the
// typed columns are known.
type Columns struct {
	Orders    []string
	Freight   []string
	Warehouse []string
}

func columnsOf(store *dataset.Store) Columns {
	return Columns{
		Orders:    store.Columns(dataset.TableOrders),
		Freight:   store.Columns(dataset.TableFreight),
		Warehouse: store.Columns(dataset.TableWarehouse),
	}
}

// Empty reports whether all three views have no rows
func (v Views) Empty() bool {
	return len(v.Orders) == 0 && len(v.Freight) == 0 && len(v.Warehouse) == 0
}

// FilterByYear keeps orders dated in year and freight/warehouse rows whose Year equals year.
// The three filters are independent and the store is left untouched.
func FilterByYear(store *dataset.Store, year int) Views {
	v := Views{
		Year:      year,
		Orders:    []dataset.Order{},
		Freight:   []dataset.Freight{},
		Warehouse: []dataset.WarehouseCost{},
	}
	if store == nil {
		return v
	}
	v.Columns = columnsOf(store)

	for o := range store.Orders() {
		if o.HasDate() && o.Date.Year() == year {
			v.Orders = append(v.Orders, o)
		}
	}
	for f := range store.Freight() {
		if f.Year != 0 && f.Year == year {
			v.Freight = append(v.Freight, f)
		}
	}
	for w := range store.Warehouse() {
		if w.Year != 0 && w.Year == year {
			v.Warehouse = append(v.Warehouse, w)
		}
	}
	return v
}

// All returns every row of the store as views, for whole-dataset KPIs
func All(store *dataset.Store) Views {
	v := Views{
		Orders:    []dataset.Order{},
		Freight:   []dataset.Freight{},
		Warehouse: []dataset.WarehouseCost{},
	}
	if store == nil {
		return v
	}
	v.Columns = columnsOf(store)
	for o := range store.Orders() {
		v.Orders = append(v.Orders, o)
	}
	for f := range store.Freight() {
		v.Freight = append(v.Freight, f)
	}
	for w := range store.Warehouse() {
		v.Warehouse = append(v.Warehouse, w)
	}
	return v
}
