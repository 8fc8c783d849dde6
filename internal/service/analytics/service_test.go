package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/repository/memory"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store Store) *Service {
	svc := NewService(store, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sale(productID, productName, shopID string, qty int64, amount, price float64, createdAt time.Time) models.SaleEvent {
	return models.SaleEvent{
		ProductID:   productID,
		ProductName: productName,
		ShopID:      shopID,
		Quantity:    qty,
		Amount:      amount,
		Price:       price,
		CreatedAt:   createdAt,
	}
}

func TestTrendingProductsSortsByQuantityNotRevenue(t *testing.T) {
	store := memory.NewStore()
	ts := fixedNow.Add(-24 * time.Hour)
	store.AddSales(
		sale("A", "Widget", "s1", 3, 30, 10, ts),
		sale("A", "Widget", "s1", 2, 20, 10, ts.Add(time.Hour)),
		sale("B", "Gadget", "s1", 1, 100, 100, ts),
	)

	svc := newTestService(store)
	trends, err := svc.TrendingProducts(context.Background(), 30, 2)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	assert.Equal(t, "A", trends[0].ProductID)
	assert.Equal(t, int64(5), trends[0].TotalQuantity)
	assert.Equal(t, float64(50), trends[0].TotalSales)
	assert.Equal(t, int64(2), trends[0].SaleCount)
	assert.Equal(t, float64(10), trends[0].AveragePrice)

	assert.Equal(t, "B", trends[1].ProductID)
	assert.Equal(t, int64(1), trends[1].TotalQuantity)
	assert.Equal(t, float64(100), trends[1].TotalSales)
}

func TestTrendingProductsRepresentativeNameIsMostRecent(t *testing.T) {
	store := memory.NewStore()
	store.AddSales(
		sale("A", "Widget (old label)", "s1", 1, 10, 10, fixedNow.Add(-72*time.Hour)),
		sale("A", "Widget", "s1", 1, 10, 10, fixedNow.Add(-time.Hour)),
	)

	svc := newTestService(store)
	trends, err := svc.TrendingProducts(context.Background(), 30, 5)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, "Widget", trends[0].ProductName)
}

func TestTrendingProductsEnrichment(t *testing.T) {
	store := memory.NewStore()
	ts := fixedNow.Add(-time.Hour)
	store.AddSales(
		sale("A", "Widget", "s1", 4, 40, 10, ts),
		sale("B", "Gadget", "s1", 2, 60, 30, ts),
	)
	store.PutInventory(models.InventoryItem{
		ID: "A", ProductName: "Widget", Quantity: 0, Price: 12.5, InventoryCategoryID: "c1",
	})

	svc := newTestService(store)
	trends, err := svc.TrendingProducts(context.Background(), 7, 10)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	// Product A exists with zero stock: enrichment present, value zero.
	require.NotNil(t, trends[0].CurrentStock)
	assert.Equal(t, int64(0), *trends[0].CurrentStock)
	require.NotNil(t, trends[0].CurrentPrice)
	assert.Equal(t, 12.5, *trends[0].CurrentPrice)

	// Product B is gone from inventory: enrichment absent, not zero.
	assert.Nil(t, trends[1].CurrentStock)
	assert.Nil(t, trends[1].CurrentPrice)
}

func TestWindowBoundaryIsInclusive(t *testing.T) {
	store := memory.NewStore()
	cutoff := fixedNow.AddDate(0, 0, -7)
	store.AddSales(
		sale("A", "Widget", "s1", 1, 10, 10, cutoff),                   // exactly on the boundary
		sale("B", "Gadget", "s1", 1, 20, 20, cutoff.Add(-time.Second)), // one second too old
	)

	svc := newTestService(store)

	trends, err := svc.TrendingProducts(context.Background(), 7, 10)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, "A", trends[0].ProductID)

	summary, err := svc.SalesSummary(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, int64(1), summary.TotalOrders)
	assert.Equal(t, float64(10), summary.TotalSales)
}

func TestSalesSummaryEmptyWindowIsNoData(t *testing.T) {
	store := memory.NewStore()
	store.AddSales(sale("A", "Widget", "s1", 1, 10, 10, fixedNow.AddDate(0, 0, -40)))

	svc := newTestService(store)
	summary, err := svc.SalesSummary(context.Background(), 30)
	require.NoError(t, err)
	assert.Nil(t, summary, "a window with no events must yield no data, not zeros")
}

func TestSalesSummaryAverages(t *testing.T) {
	store := memory.NewStore()
	ts := fixedNow.Add(-time.Hour)
	store.AddSales(
		sale("A", "Widget", "s1", 2, 30, 15, ts),
		sale("B", "Gadget", "s2", 1, 90, 90, ts),
	)

	svc := newTestService(store)
	summary, err := svc.SalesSummary(context.Background(), 30)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, float64(120), summary.TotalSales)
	assert.Equal(t, int64(3), summary.TotalItems)
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, float64(60), summary.AverageOrderValue)
}

func TestDailySalesTrendIsSparseAndAscending(t *testing.T) {
	store := memory.NewStore()
	day1 := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 6, 12, 23, 59, 0, 0, time.UTC)
	store.AddSales(
		sale("A", "Widget", "s1", 1, 10, 10, day3),
		sale("A", "Widget", "s1", 2, 20, 10, day1),
		sale("B", "Gadget", "s1", 1, 5, 5, day1),
	)

	svc := newTestService(store)
	trend, err := svc.DailySalesTrend(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, trend, 2, "day without sales must not produce a bucket")

	assert.Equal(t, "2025-06-10", trend[0].Date)
	assert.Equal(t, float64(25), trend[0].TotalSales)
	assert.Equal(t, int64(3), trend[0].TotalItems)
	assert.Equal(t, int64(2), trend[0].OrderCount)

	assert.Equal(t, "2025-06-12", trend[1].Date)
	assert.Equal(t, int64(1), trend[1].OrderCount)
}

func TestCategoryPerformanceCountsDistinctProducts(t *testing.T) {
	store := memory.NewStore()
	ts := fixedNow.Add(-time.Hour)
	store.PutInventory(
		models.InventoryItem{ID: "A", Quantity: 5, InventoryCategoryID: "electronics"},
		models.InventoryItem{ID: "B", Quantity: 5, InventoryCategoryID: "electronics"},
	)
	store.AddSales(
		sale("A", "Widget", "s1", 1, 10, 10, ts),
		sale("A", "Widget", "s1", 1, 10, 10, ts.Add(time.Minute)),
		sale("B", "Gadget", "s1", 1, 10, 10, ts),
	)

	svc := newTestService(store)
	stats, err := svc.CategoryPerformance(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "electronics", stats[0].CategoryID)
	assert.Equal(t, int64(2), stats[0].ProductCount, "two sales of one product count once")
	assert.Equal(t, float64(30), stats[0].TotalSales)
	assert.Equal(t, int64(3), stats[0].TotalItems)
}

func TestCategoryPerformanceDropsSalesWithoutInventory(t *testing.T) {
	store := memory.NewStore()
	ts := fixedNow.Add(-time.Hour)
	store.PutInventory(models.InventoryItem{ID: "A", Quantity: 5, InventoryCategoryID: "c1"})
	store.AddSales(
		sale("A", "Widget", "s1", 1, 10, 10, ts),
		sale("deleted", "Ghost", "s1", 9, 900, 100, ts),
	)

	svc := newTestService(store)
	stats, err := svc.CategoryPerformance(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, float64(10), stats[0].TotalSales, "sales of deleted products must not leak into any bucket")
}

func TestStockAlertsThresholdBoundary(t *testing.T) {
	store := memory.NewStore()
	store.PutInventory(
		models.InventoryItem{ID: "A", ProductName: "At threshold", Quantity: 10},
		models.InventoryItem{ID: "B", ProductName: "Above threshold", Quantity: 11},
		models.InventoryItem{ID: "C", ProductName: "Empty", Quantity: 0},
	)

	svc := newTestService(store)
	items, err := svc.StockAlerts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Empty", items[0].ProductName)
	assert.Equal(t, "At threshold", items[1].ProductName)
}

func TestShopPerformanceJoinsAndDerivesAverage(t *testing.T) {
	store := memory.NewStore()
	ts := fixedNow.Add(-time.Hour)
	store.PutShops(models.Shop{ID: "s1", ShopName: "Main Street"})
	store.AddSales(
		sale("A", "Widget", "s1", 2, 30, 15, ts),
		sale("B", "Gadget", "s1", 1, 50, 50, ts),
		sale("C", "Doodad", "unlisted", 1, 999, 999, ts),
	)

	svc := newTestService(store)
	stats, err := svc.ShopPerformance(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, stats, 1, "shop without a directory record must be dropped")
	assert.Equal(t, "Main Street", stats[0].ShopName)
	assert.Equal(t, float64(80), stats[0].TotalSales)
	assert.Equal(t, int64(2), stats[0].OrderCount)
	assert.Equal(t, float64(40), stats[0].AverageOrderValue)
}

func TestInvalidArguments(t *testing.T) {
	svc := newTestService(memory.NewStore())
	ctx := context.Background()

	_, err := svc.TrendingProducts(ctx, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.TrendingProducts(ctx, 30, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.SalesSummary(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.DailySalesTrend(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.CategoryPerformance(ctx, -5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.StockAlerts(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.ShopPerformance(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Zero threshold is valid: it means "alert only on empty stock".
	_, err = svc.StockAlerts(ctx, 0)
	assert.NoError(t, err)
}

func TestIdempotentResults(t *testing.T) {
	store := memory.NewStore()
	ts := fixedNow.Add(-time.Hour)
	store.PutShops(models.Shop{ID: "s1", ShopName: "Main Street"})
	store.PutInventory(
		models.InventoryItem{ID: "A", ProductName: "Widget", Quantity: 3, Price: 10, InventoryCategoryID: "c1"},
		models.InventoryItem{ID: "B", ProductName: "Gadget", Quantity: 3, Price: 20, InventoryCategoryID: "c2"},
	)
	// Equal quantities force the tie-break path.
	store.AddSales(
		sale("A", "Widget", "s1", 2, 20, 10, ts),
		sale("B", "Gadget", "s1", 2, 40, 20, ts),
	)

	svc := newTestService(store)
	first, err := svc.TrendingProducts(context.Background(), 30, 10)
	require.NoError(t, err)
	second, err := svc.TrendingProducts(context.Background(), 30, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Len(t, first, 2)
	assert.Equal(t, "A", first[0].ProductID, "ties resolve by product id ascending")
}

type failingStore struct {
	memory.Store
}

func (f *failingStore) SalesSummary(context.Context, time.Time) (*models.SalesSummary, error) {
	return nil, fmt.Errorf("%w: connection reset", ErrStoreUnavailable)
}

func TestStoreFailurePropagatesAsStoreUnavailable(t *testing.T) {
	svc := newTestService(&failingStore{})
	_, err := svc.SalesSummary(context.Background(), 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "window 30d")
}

func TestCutoffUsesInjectedClock(t *testing.T) {
	store := memory.NewStore()
	store.AddSales(sale("A", "Widget", "s1", 1, 10, 10, fixedNow.Add(time.Hour)))

	svc := newTestService(store)
	summary, err := svc.SalesSummary(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, summary, "events after the injected now still satisfy createdAt >= cutoff")
}
