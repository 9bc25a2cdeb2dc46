package dataset

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"logisticsdash/internal/config"
	apierrors "logisticsdash/internal/errors"
)

// Sources locates the three dataset files
type Sources struct {
	Orders      string
	Freight     string
	Warehouse   string
	DateLayouts []string
}

// SourcesFromConfig resolves file paths against the configured data directory
func SourcesFromConfig(cfg config.DataConfig) Sources {
	return Sources{
		Orders:      cfg.OrdersPath(),
		Freight:     cfg.FreightPath(),
		Warehouse:   cfg.WarehousePath(),
		DateLayouts: cfg.DateLayouts,
	}
}

// TableInfo describes one loaded table
type TableInfo struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
	Missing bool     `json:"missing"`
}

// Store holds the typed datasets. It is built once and never mutated afterwards,
// so it is safe for concurrent readers.
type Store struct {
	orders    []Order
	freight   []Freight
	warehouse []WarehouseCost
	tables    []TableInfo
	loadedAt  time.Time
}

// NewStore builds a store from already-typed records. The slices are copied.
func NewStore(orders []Order, freight []Freight, warehouse []WarehouseCost) *Store {
	return &Store{
		orders:    slices.Clone(orders),
		freight:   slices.Clone(freight),
		warehouse: slices.Clone(warehouse),
		tables: []TableInfo{
			{Name: TableOrders, Columns: slices.Clone(OrderColumns), Rows: len(orders)},
			{Name: TableFreight, Columns: slices.Clone(FreightColumns), Rows: len(freight)},
			{Name: TableWarehouse, Columns: slices.Clone(WarehouseColumns), Rows: len(warehouse)},
		},
		loadedAt: time.Now(),
	}
}

// Load reads the three files concurrently and builds the store.
// Missing files become empty tables; malformed content fails the load.
func Load(ctx context.Context, src Sources, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loader := NewLoader(logger)
	dates := NewDateParser(src.DateLayouts)
	start := time.Now()

	var (
		ordersTable, freightTable, warehouseTable *Table
		store                                     = &Store{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := loader.LoadTable(gctx, TableOrders, src.Orders, OrderColumns)
		if err != nil {
			return err
		}
		orders, err := ParseOrders(t, dates)
		if err != nil {
			return parseFailure(t, err)
		}
		ordersTable, store.orders = t, orders
		return nil
	})
	g.Go(func() error {
		t, err := loader.LoadTable(gctx, TableFreight, src.Freight, FreightColumns)
		if err != nil {
			return err
		}
		freight, err := ParseFreight(t)
		if err != nil {
			return parseFailure(t, err)
		}
		freightTable, store.freight = t, freight
		return nil
	})
	g.Go(func() error {
		t, err := loader.LoadTable(gctx, TableWarehouse, src.Warehouse, WarehouseColumns)
		if err != nil {
			return err
		}
		warehouse, err := ParseWarehouseCosts(t)
		if err != nil {
			return parseFailure(t, err)
		}
		warehouseTable, store.warehouse = t, warehouse
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "dataset load failed", slog.String("error", err.Error()))
		return nil, err
	}

	for _, t := range []*Table{ordersTable, freightTable, warehouseTable} {
		store.tables = append(store.tables, TableInfo{
			Name:    t.Name,
			Path:    t.Path,
			Columns: slices.Clone(t.Columns),
			Rows:    t.Len(),
			Missing: t.Missing,
		})
	}
	store.loadedAt = time.Now()

	logger.InfoContext(ctx, "datasets loaded",
		slog.Int("orders", len(store.orders)),
		slog.Int("freight", len(store.freight)),
		slog.Int("warehouse", len(store.warehouse)),
		slog.Duration("duration", time.Since(start)))

	return store, nil
}

func parseFailure(t *Table, err error) error {
	return apierrors.NewDataCorruptedError(fmt.Sprintf("invalid values in %s dataset", t.Name), err).
		WithContext("path", t.Path)
}

// Orders iterates the order records
func (s *Store) Orders() iter.Seq[Order] { return slices.Values(s.orders) }

// Freight iterates the freight records
func (s *Store) Freight() iter.Seq[Freight] { return slices.Values(s.freight) }

// Warehouse iterates the warehouse cost records
func (s *Store) Warehouse() iter.Seq[WarehouseCost] { return slices.Values(s.warehouse) }

// OrderCount returns the number of order rows
func (s *Store) OrderCount() int { return len(s.orders) }

// FreightCount returns the number of freight rows
func (s *Store) FreightCount() int { return len(s.freight) }

// WarehouseCount returns the number of warehouse cost rows
func (s *Store) WarehouseCount() int { return len(s.warehouse) }

// Tables describes the loaded tables in orders, freight, warehouse order
func (s *Store) Tables() []TableInfo {
	out := make([]TableInfo, len(s.tables))
	for i, t := range s.tables {
		t.Columns = slices.Clone(t.Columns)
		out[i] = t
	}
	return out
}

// Columns returns the source header of the named table, extra columns included.
// Unknown names return nil.
func (s *Store) Columns(table string) []string {
	for _, t := range s.tables {
		if t.Name == table {
			return slices.Clone(t.Columns)
		}
	}
	return nil
}

// RowCounts maps table name to row count
func (s *Store) RowCounts() map[string]int {
	return map[string]int{
		TableOrders:    len(s.orders),
		TableFreight:   len(s.freight),
		TableWarehouse: len(s.warehouse),
	}
}

// LoadedAt is when the store was built
func (s *Store) LoadedAt() time.Time { return s.loadedAt }
