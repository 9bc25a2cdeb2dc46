package dataset

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logisticsdash/internal/config"
	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/shared/testutil"
)

func TestLoad_SampleDataset(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	files := testutil.WriteSampleDataset(t)

	store, err := Load(context.Background(), Sources{
		Orders:    files.Orders,
		Freight:   files.Freight,
		Warehouse: files.Warehouse,
	}, logger)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{TableOrders: 4, TableFreight: 5, TableWarehouse: 4}, store.RowCounts())
	assert.Equal(t, 4, store.OrderCount())
	assert.Equal(t, 5, store.FreightCount())
	assert.Equal(t, 4, store.WarehouseCount())
	assert.False(t, store.LoadedAt().IsZero())

	orders := slices.Collect(store.Orders())
	assert.Equal(t, int64(808), orders[0].Quantity)

	tables := store.Tables()
	require.Len(t, tables, 3)
	assert.Equal(t, TableOrders, tables[0].Name)
	assert.Equal(t, files.Orders, tables[0].Path)
	assert.False(t, tables[2].Missing)

	assert.Equal(t, []string{"Order ID", ColOrderDate, ColUnitQuantity, "Carrier"}, store.Columns(TableOrders))
	assert.Equal(t, []string{"Carrier", ColOriginPort, ColMinimumCost, ColYear}, store.Columns(TableFreight))
	assert.Nil(t, store.Columns("customers"))
	assert.Equal(t, []string{"1447296447", "2022-05-26", "808", "V44_3"}, orders[0].Source)

	assert.True(t, logs.ContainsMessage("datasets loaded"))
	testutil.AssertNoErrors(t, logs)
}

func TestLoad_MissingFilesYieldEmptyStore(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	dir := t.TempDir()

	store, err := Load(context.Background(), SourcesFromConfig(config.DataConfig{
		Dir:           dir,
		OrdersFile:    "expanded_orders.csv",
		FreightFile:   "expanded_freight.csv",
		WarehouseFile: "expanded_wh_costs.csv",
	}), logger)
	require.NoError(t, err)

	assert.Zero(t, store.OrderCount())
	assert.Zero(t, store.FreightCount())
	assert.Zero(t, store.WarehouseCount())
	for _, info := range store.Tables() {
		assert.True(t, info.Missing, info.Name)
		assert.NotEmpty(t, info.Columns, info.Name)
	}
	assert.Equal(t, filepath.Join(dir, "expanded_orders.csv"), store.Tables()[0].Path)
	assert.Len(t, logs.GetRecords(), 4)
}

func TestLoad_MalformedDateFailsLoad(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	files := testutil.WriteSampleDataset(t)
	testutil.WriteFile(t, files.Dir, "expanded_orders.csv", "Order Date,Unit quantity\n2022-01-01,4\nsoon,1\n")

	_, err := Load(context.Background(), Sources{
		Orders:    files.Orders,
		Freight:   files.Freight,
		Warehouse: files.Warehouse,
	}, logger)

	require.ErrorIs(t, err, ErrMalformedDate)
	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeDataCorrupted, appErr.Type)
	assert.Equal(t, files.Orders, appErr.Context["path"])
	assert.True(t, logs.ContainsMessage("dataset load failed"))
}

func TestNewStore_CopiesInput(t *testing.T) {
	orders := []Order{{Quantity: 5}}
	store := NewStore(orders, nil, nil)
	orders[0].Quantity = 99

	got := slices.Collect(store.Orders())
	assert.Equal(t, int64(5), got[0].Quantity)
	assert.Empty(t, slices.Collect(store.Freight()))

	tables := store.Tables()
	tables[0].Columns[0] = "mutated"
	assert.Equal(t, ColOrderDate, store.Tables()[0].Columns[0])
}
