package analytics

import (
	"context"
	"time"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
)

// Store is the read-only view of the transactional collections the engine
// aggregates over. Implementations must treat the since cutoff as inclusive
// (createdAt >= since) and produce deterministic ordering: every sort breaks
// ties on the group key ascending, and the representative product name for a
// trending group is the name on the group's most recent sale.
//
// Each method should execute as a single read against the backing store so a
// call never observes a partially written group. Store failures are reported
// wrapped in ErrStoreUnavailable.
type Store interface {
	// TrendingProducts groups sales since the cutoff by product, sorted by
	// total quantity descending and truncated to limit. Enrichment fields are
	// left nil; the engine fills them.
	TrendingProducts(ctx context.Context, since time.Time, limit int64) ([]models.ProductTrend, error)

	// InventoryByIDs returns the current inventory records for the given
	// product IDs, keyed by ID. Missing products are simply absent.
	InventoryByIDs(ctx context.Context, ids []string) (map[string]models.InventoryItem, error)

	// SalesSummary aggregates all sales since the cutoff. A window with no
	// events yields (nil, nil), never a zero-valued summary.
	SalesSummary(ctx context.Context, since time.Time) (*models.SalesSummary, error)

	// DailySalesTrend buckets sales since the cutoff by UTC calendar date,
	// ascending. Days without sales produce no bucket.
	DailySalesTrend(ctx context.Context, since time.Time) ([]models.DayBucket, error)

	// CategoryPerformance inner-joins sales since the cutoff to inventory and
	// groups by category, sorted by total sales descending. Sales whose
	// product is gone from inventory are dropped.
	CategoryPerformance(ctx context.Context, since time.Time) ([]models.CategoryStat, error)

	// StockAlerts lists inventory at or below the threshold, ascending by
	// quantity. Point-in-time; no window applies.
	StockAlerts(ctx context.Context, threshold int64) ([]models.LowStockItem, error)

	// ShopPerformance groups sales since the cutoff by shop and inner-joins
	// the shop directory, sorted by total sales descending. Groups whose shop
	// has no directory record are dropped. AverageOrderValue is left zero;
	// the engine derives it.
	ShopPerformance(ctx context.Context, since time.Time) ([]models.ShopStat, error)
}
