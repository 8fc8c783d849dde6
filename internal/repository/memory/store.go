package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
)

const dayLayout = "2006-01-02"

// Store is an in-memory implementation of the analytics store contract. It
// mirrors the MongoDB pipelines with plain loops and is used by unit tests
// and local development runs.
type Store struct {
	mu        sync.RWMutex
	sales     []models.SaleEvent
	inventory map[string]models.InventoryItem
	shops     map[string]models.Shop
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		inventory: make(map[string]models.InventoryItem),
		shops:     make(map[string]models.Shop),
	}
}

// AddSales appends sale events to the ledger.
func (s *Store) AddSales(events ...models.SaleEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, events...)
}

// PutInventory upserts inventory records.
func (s *Store) PutInventory(items ...models.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.inventory[item.ID] = item
	}
}

// PutShops upserts shop directory records.
func (s *Store) PutShops(shops ...models.Shop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shop := range shops {
		s.shops[shop.ID] = shop
	}
}

type trendAccumulator struct {
	name     string
	nameAt   time.Time
	quantity int64
	sales    float64
	priceSum float64
	count    int64
}

// TrendingProducts implements the analytics store contract. The
// representative product name is the one on the group's most recent sale.
func (s *Store) TrendingProducts(_ context.Context, since time.Time, limit int64) ([]models.ProductTrend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[string]*trendAccumulator)
	for _, sale := range s.sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		acc, ok := groups[sale.ProductID]
		if !ok {
			acc = &trendAccumulator{name: sale.ProductName, nameAt: sale.CreatedAt}
			groups[sale.ProductID] = acc
		} else if sale.CreatedAt.After(acc.nameAt) {
			acc.name = sale.ProductName
			acc.nameAt = sale.CreatedAt
		}
		acc.quantity += sale.Quantity
		acc.sales += sale.Amount
		acc.priceSum += sale.Price
		acc.count++
	}

	trends := make([]models.ProductTrend, 0, len(groups))
	for id, acc := range groups {
		trends = append(trends, models.ProductTrend{
			ProductID:     id,
			ProductName:   acc.name,
			TotalQuantity: acc.quantity,
			TotalSales:    acc.sales,
			AveragePrice:  acc.priceSum / float64(acc.count),
			SaleCount:     acc.count,
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].TotalQuantity != trends[j].TotalQuantity {
			return trends[i].TotalQuantity > trends[j].TotalQuantity
		}
		return trends[i].ProductID < trends[j].ProductID
	})

	if int64(len(trends)) > limit {
		trends = trends[:limit]
	}
	return trends, nil
}

// InventoryByIDs returns current inventory records keyed by product ID.
func (s *Store) InventoryByIDs(_ context.Context, ids []string) (map[string]models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]models.InventoryItem, len(ids))
	for _, id := range ids {
		if item, ok := s.inventory[id]; ok {
			found[id] = item
		}
	}
	return found, nil
}

// SalesSummary aggregates the window's sales, or returns nil when the window
// holds no events.
func (s *Store) SalesSummary(_ context.Context, since time.Time) (*models.SalesSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summary models.SalesSummary
	for _, sale := range s.sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		summary.TotalSales += sale.Amount
		summary.TotalItems += sale.Quantity
		summary.TotalOrders++
	}

	if summary.TotalOrders == 0 {
		return nil, nil
	}
	summary.AverageOrderValue = summary.TotalSales / float64(summary.TotalOrders)
	return &summary, nil
}

// DailySalesTrend buckets the window's sales by UTC calendar date, ascending.
func (s *Store) DailySalesTrend(_ context.Context, since time.Time) ([]models.DayBucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := make(map[string]*models.DayBucket)
	for _, sale := range s.sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		day := sale.CreatedAt.UTC().Format(dayLayout)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &models.DayBucket{Date: day}
			buckets[day] = bucket
		}
		bucket.TotalSales += sale.Amount
		bucket.TotalItems += sale.Quantity
		bucket.OrderCount++
	}

	trend := make([]models.DayBucket, 0, len(buckets))
	for _, bucket := range buckets {
		trend = append(trend, *bucket)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	return trend, nil
}

type categoryAccumulator struct {
	sales    float64
	items    int64
	products map[string]struct{}
}

// CategoryPerformance inner-joins sales to inventory and groups by category.
// Sales whose product no longer exists in inventory are dropped.
func (s *Store) CategoryPerformance(_ context.Context, since time.Time) ([]models.CategoryStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[string]*categoryAccumulator)
	for _, sale := range s.sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		item, ok := s.inventory[sale.ProductID]
		if !ok {
			continue
		}
		acc, ok := groups[item.InventoryCategoryID]
		if !ok {
			acc = &categoryAccumulator{products: make(map[string]struct{})}
			groups[item.InventoryCategoryID] = acc
		}
		acc.sales += sale.Amount
		acc.items += sale.Quantity
		acc.products[sale.ProductID] = struct{}{}
	}

	stats := make([]models.CategoryStat, 0, len(groups))
	for id, acc := range groups {
		stats = append(stats, models.CategoryStat{
			CategoryID:   id,
			TotalSales:   acc.sales,
			TotalItems:   acc.items,
			ProductCount: int64(len(acc.products)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalSales != stats[j].TotalSales {
			return stats[i].TotalSales > stats[j].TotalSales
		}
		return stats[i].CategoryID < stats[j].CategoryID
	})
	return stats, nil
}

// StockAlerts lists inventory at or below the threshold, ascending by
// quantity with the product ID as tie-break.
func (s *Store) StockAlerts(_ context.Context, threshold int64) ([]models.LowStockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type keyed struct {
		id   string
		item models.LowStockItem
		qty  int64
	}

	low := make([]keyed, 0)
	for id, item := range s.inventory {
		if item.Quantity > threshold {
			continue
		}
		low = append(low, keyed{
			id:  id,
			qty: item.Quantity,
			item: models.LowStockItem{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Price:       item.Price,
				BrandName:   item.BrandName,
				ProductType: item.ProductType,
			},
		})
	}

	sort.Slice(low, func(i, j int) bool {
		if low[i].qty != low[j].qty {
			return low[i].qty < low[j].qty
		}
		return low[i].id < low[j].id
	})

	items := make([]models.LowStockItem, 0, len(low))
	for _, k := range low {
		items = append(items, k.item)
	}
	return items, nil
}

type shopAccumulator struct {
	sales  float64
	items  int64
	orders int64
}

// ShopPerformance groups the window's sales by shop and inner-joins the shop
// directory. Groups without a directory record are dropped.
func (s *Store) ShopPerformance(_ context.Context, since time.Time) ([]models.ShopStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[string]*shopAccumulator)
	for _, sale := range s.sales {
		if sale.CreatedAt.Before(since) {
			continue
		}
		acc, ok := groups[sale.ShopID]
		if !ok {
			acc = &shopAccumulator{}
			groups[sale.ShopID] = acc
		}
		acc.sales += sale.Amount
		acc.items += sale.Quantity
		acc.orders++
	}

	stats := make([]models.ShopStat, 0, len(groups))
	for id, acc := range groups {
		shop, ok := s.shops[id]
		if !ok {
			continue
		}
		stats = append(stats, models.ShopStat{
			ShopID:     id,
			ShopName:   shop.ShopName,
			TotalSales: acc.sales,
			TotalItems: acc.items,
			OrderCount: acc.orders,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalSales != stats[j].TotalSales {
			return stats[i].TotalSales > stats[j].TotalSales
		}
		return stats[i].ShopID < stats[j].ShopID
	})
	return stats, nil
}
