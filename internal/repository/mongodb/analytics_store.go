package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/service/analytics"
)

// The methods below implement analytics.Store. Each operation runs as a
// single aggregation pipeline so no call observes a partially written group.
// Every sort carries the group key as a secondary ascending key to keep
// output order deterministic under ties, and trending groups take their
// representative product name from the most recent sale (createdAt sorted
// descending before $group, so $first is well defined).

var _ analytics.Store = (*Repository)(nil)

func (r *Repository) TrendingProducts(ctx context.Context, since time.Time, limit int64) ([]models.ProductTrend, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$productId",
			"productName":    bson.M{"$first": "$productName"},
			"total_quantity": bson.M{"$sum": "$quantity"},
			"total_sales":    bson.M{"$sum": "$amount"},
			"average_price":  bson.M{"$avg": "$price"},
			"sale_count":     bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_quantity", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	var trends []models.ProductTrend
	if err := r.aggregate(ctx, invoiceItemsCollection, pipeline, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

func (r *Repository) InventoryByIDs(ctx context.Context, ids []string) (map[string]models.InventoryItem, error) {
	cursor, err := r.collection(inventoryCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, storeErr("find inventory by ids", err)
	}

	var items []models.InventoryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, storeErr("decode inventory by ids", err)
	}

	found := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		found[item.ID] = item
	}
	return found, nil
}

func (r *Repository) SalesSummary(ctx context.Context, since time.Time) (*models.SalesSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":                 nil,
			"total_sales":         bson.M{"$sum": "$amount"},
			"total_items":         bson.M{"$sum": "$quantity"},
			"average_order_value": bson.M{"$avg": "$amount"},
			"total_orders":        bson.M{"$sum": 1},
		}}},
	}

	var summaries []models.SalesSummary
	if err := r.aggregate(ctx, invoiceItemsCollection, pipeline, &summaries); err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}

func (r *Repository) DailySalesTrend(ctx context.Context, since time.Time) ([]models.DayBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"total_sales": bson.M{"$sum": "$amount"},
			"total_items": bson.M{"$sum": "$quantity"},
			"order_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	var trend []models.DayBucket
	if err := r.aggregate(ctx, invoiceItemsCollection, pipeline, &trend); err != nil {
		return nil, err
	}
	return trend, nil
}

func (r *Repository) CategoryPerformance(ctx context.Context, since time.Time) ([]models.CategoryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         inventoryCollection,
			"localField":   "productId",
			"foreignField": "_id",
			"as":           "inventory",
		}}},
		// Inner join: sales whose product is gone from inventory are dropped.
		{{Key: "$unwind", Value: "$inventory"}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$inventory.inventoryCategoryId",
			"total_sales": bson.M{"$sum": "$amount"},
			"total_items": bson.M{"$sum": "$quantity"},
			"products":    bson.M{"$addToSet": "$productId"},
		}}},
		{{Key: "$project", Value: bson.M{
			"total_sales":   1,
			"total_items":   1,
			"product_count": bson.M{"$size": "$products"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_sales", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	var stats []models.CategoryStat
	if err := r.aggregate(ctx, invoiceItemsCollection, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *Repository) StockAlerts(ctx context.Context, threshold int64) ([]models.LowStockItem, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"quantity": bson.M{"$lte": threshold}}}},
		{{Key: "$sort", Value: bson.D{{Key: "quantity", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"productName": 1,
			"quantity":    1,
			"price":       1,
			"brandName":   1,
			"productType": 1,
		}}},
	}

	var items []models.LowStockItem
	if err := r.aggregate(ctx, inventoryCollection, pipeline, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) ShopPerformance(ctx context.Context, since time.Time) ([]models.ShopStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$shopId",
			"total_sales": bson.M{"$sum": "$amount"},
			"total_items": bson.M{"$sum": "$quantity"},
			"order_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         shopsCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "shop",
		}}},
		// Inner join: shops without a directory record are dropped.
		{{Key: "$unwind", Value: "$shop"}},
		{{Key: "$project", Value: bson.M{
			"shop_name":   "$shop.shopName",
			"total_sales": 1,
			"total_items": 1,
			"order_count": 1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_sales", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	var stats []models.ShopStat
	if err := r.aggregate(ctx, invoiceItemsCollection, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *Repository) aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, out any) error {
	cursor, err := r.collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return storeErr("aggregate "+collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return storeErr("decode "+collection+" results", err)
	}
	return nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", analytics.ErrStoreUnavailable, op, err)
}
