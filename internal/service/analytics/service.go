package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
)

// ErrInvalidArgument indicates a non-positive window or limit, or a negative
// threshold. Never retryable.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrStoreUnavailable indicates the backing store could not be reached or the
// query failed. Store implementations wrap their driver errors in it so
// callers can tell transient store trouble apart from bad input.
var ErrStoreUnavailable = errors.New("analytics store unavailable")

// Service answers bounded analytical queries over the sale-event ledger and
// inventory snapshot. It is stateless: every call is a pure function of the
// store contents, the parameters and the injected clock, so any number of
// calls may run concurrently. The service never retries; store failures
// propagate to the caller annotated with the failing operation and window.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an engine around the given store handle. The store is
// expected to be long-lived and shared; the engine never reconnects it.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// TrendingProducts returns the top products by units sold inside the trailing
// window, enriched with live stock and price where the product still exists
// in inventory. Products gone from inventory keep their sale aggregates but
// carry nil enrichment fields.
func (s *Service) TrendingProducts(ctx context.Context, windowDays, limit int) ([]models.ProductTrend, error) {
	if err := validateWindow(windowDays); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}

	trends, err := s.store.TrendingProducts(ctx, s.cutoff(windowDays), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("trending products (window %dd): %w", windowDays, err)
	}
	if len(trends) == 0 {
		return trends, nil
	}

	ids := make([]string, 0, len(trends))
	for _, t := range trends {
		ids = append(ids, t.ProductID)
	}

	inventory, err := s.store.InventoryByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("trending products enrichment (window %dd): %w", windowDays, err)
	}

	for i := range trends {
		item, ok := inventory[trends[i].ProductID]
		if !ok {
			continue
		}
		stock := item.Quantity
		price := item.Price
		trends[i].CurrentStock = &stock
		trends[i].CurrentPrice = &price
	}

	s.logger.Debug("computed trending products",
		zap.Int("window_days", windowDays),
		zap.Int("results", len(trends)))

	return trends, nil
}

// SalesSummary aggregates every sale in the trailing window. It returns nil
// when no events fall in the window; callers must treat that as "no sales
// happened", distinct from sales that summed to zero.
func (s *Service) SalesSummary(ctx context.Context, windowDays int) (*models.SalesSummary, error) {
	if err := validateWindow(windowDays); err != nil {
		return nil, err
	}

	summary, err := s.store.SalesSummary(ctx, s.cutoff(windowDays))
	if err != nil {
		return nil, fmt.Errorf("sales summary (window %dd): %w", windowDays, err)
	}
	return summary, nil
}

// DailySalesTrend buckets the trailing window's sales by UTC calendar date,
// ascending. The series is sparse: days without sales are absent, and callers
// needing a dense series must zero-fill missing dates themselves.
func (s *Service) DailySalesTrend(ctx context.Context, windowDays int) ([]models.DayBucket, error) {
	if err := validateWindow(windowDays); err != nil {
		return nil, err
	}

	buckets, err := s.store.DailySalesTrend(ctx, s.cutoff(windowDays))
	if err != nil {
		return nil, fmt.Errorf("daily sales trend (window %dd): %w", windowDays, err)
	}
	return buckets, nil
}

// CategoryPerformance aggregates the trailing window's sales per inventory
// category, sorted by revenue. The underlying join is inner: sales whose
// product no longer exists in inventory are excluded entirely, unlike
// TrendingProducts where the missing product only loses its enrichment.
func (s *Service) CategoryPerformance(ctx context.Context, windowDays int) ([]models.CategoryStat, error) {
	if err := validateWindow(windowDays); err != nil {
		return nil, err
	}

	stats, err := s.store.CategoryPerformance(ctx, s.cutoff(windowDays))
	if err != nil {
		return nil, fmt.Errorf("category performance (window %dd): %w", windowDays, err)
	}
	return stats, nil
}

// StockAlerts lists inventory items whose on-hand quantity is at or below the
// threshold, lowest first. This is a point-in-time snapshot; no time window
// applies.
func (s *Service) StockAlerts(ctx context.Context, threshold int) ([]models.LowStockItem, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must not be negative, got %d", ErrInvalidArgument, threshold)
	}

	items, err := s.store.StockAlerts(ctx, int64(threshold))
	if err != nil {
		return nil, fmt.Errorf("stock alerts (threshold %d): %w", threshold, err)
	}
	return items, nil
}

// ShopPerformance aggregates the trailing window's sales per shop, joined to
// the shop directory, sorted by revenue. Groups whose shop is missing from
// the directory are dropped, matching the category join policy.
func (s *Service) ShopPerformance(ctx context.Context, windowDays int) ([]models.ShopStat, error) {
	if err := validateWindow(windowDays); err != nil {
		return nil, err
	}

	stats, err := s.store.ShopPerformance(ctx, s.cutoff(windowDays))
	if err != nil {
		return nil, fmt.Errorf("shop performance (window %dd): %w", windowDays, err)
	}

	for i := range stats {
		if stats[i].OrderCount > 0 {
			stats[i].AverageOrderValue = stats[i].TotalSales / float64(stats[i].OrderCount)
		}
	}

	return stats, nil
}

func (s *Service) cutoff(windowDays int) time.Time {
	return s.now().UTC().AddDate(0, 0, -windowDays)
}

func validateWindow(windowDays int) error {
	if windowDays <= 0 {
		return fmt.Errorf("%w: windowDays must be positive, got %d", ErrInvalidArgument, windowDays)
	}
	return nil
}
