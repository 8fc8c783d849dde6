package models

// ProductTrend is one row of the trending-products view: per-product sale
// aggregates over a trailing window, optionally enriched with the live
// inventory record. CurrentStock and CurrentPrice are nil when the product no
// longer exists in inventory; nil and zero stock are distinct states.
type ProductTrend struct {
	ProductID     string   `bson:"_id" json:"product_id"`
	ProductName   string   `bson:"productName" json:"product_name"`
	TotalQuantity int64    `bson:"total_quantity" json:"total_quantity"`
	TotalSales    float64  `bson:"total_sales" json:"total_sales"`
	AveragePrice  float64  `bson:"average_price" json:"average_price"`
	SaleCount     int64    `bson:"sale_count" json:"sale_count"`
	CurrentStock  *int64   `bson:"current_stock,omitempty" json:"current_stock,omitempty"`
	CurrentPrice  *float64 `bson:"current_price,omitempty" json:"current_price,omitempty"`
}

// SalesSummary aggregates all sale events in a window. Callers receive a nil
// *SalesSummary when the window held no events at all, which is not the same
// thing as a summary whose sums are zero.
type SalesSummary struct {
	TotalSales        float64 `bson:"total_sales" json:"total_sales"`
	TotalItems        int64   `bson:"total_items" json:"total_items"`
	AverageOrderValue float64 `bson:"average_order_value" json:"average_order_value"`
	TotalOrders       int64   `bson:"total_orders" json:"total_orders"`
}

// DayBucket holds per-calendar-day sale aggregates. Date is a YYYY-MM-DD
// string derived from createdAt in UTC. Days without events produce no bucket.
type DayBucket struct {
	Date       string  `bson:"_id" json:"date"`
	TotalSales float64 `bson:"total_sales" json:"total_sales"`
	TotalItems int64   `bson:"total_items" json:"total_items"`
	OrderCount int64   `bson:"order_count" json:"order_count"`
}

// CategoryStat aggregates sales per inventory category. ProductCount is the
// number of distinct products sold in the category, not the line-item count.
type CategoryStat struct {
	CategoryID   string  `bson:"_id" json:"category_id"`
	TotalSales   float64 `bson:"total_sales" json:"total_sales"`
	TotalItems   int64   `bson:"total_items" json:"total_items"`
	ProductCount int64   `bson:"product_count" json:"product_count"`
}

// LowStockItem is an inventory record at or below the alert threshold.
type LowStockItem struct {
	ProductName string  `bson:"productName" json:"product_name"`
	Quantity    int64   `bson:"quantity" json:"quantity"`
	Price       float64 `bson:"price" json:"price"`
	BrandName   string  `bson:"brandName" json:"brand_name"`
	ProductType string  `bson:"productType" json:"product_type"`
}

// ShopStat aggregates sales per shop, joined to the shop directory.
type ShopStat struct {
	ShopID            string  `bson:"_id" json:"shop_id"`
	ShopName          string  `bson:"shop_name" json:"shop_name"`
	TotalSales        float64 `bson:"total_sales" json:"total_sales"`
	TotalItems        int64   `bson:"total_items" json:"total_items"`
	OrderCount        int64   `bson:"order_count" json:"order_count"`
	AverageOrderValue float64 `bson:"average_order_value" json:"average_order_value"`
}
