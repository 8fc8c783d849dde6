package models

// InventoryItem is the current stock record for a product. Its ID matches the
// productId on sale events. Quantity and price are mutated continuously by
// order and restock flows outside this service.
type InventoryItem struct {
	ID                  string  `bson:"_id" json:"id"`
	ProductName         string  `bson:"productName" json:"product_name"`
	Quantity            int64   `bson:"quantity" json:"quantity"`
	Price               float64 `bson:"price" json:"price"`
	BrandName           string  `bson:"brandName" json:"brand_name"`
	ProductType         string  `bson:"productType" json:"product_type"`
	InventoryCategoryID string  `bson:"inventoryCategoryId" json:"inventory_category_id"`
}

// Shop is static reference data for a selling location.
type Shop struct {
	ID       string `bson:"_id" json:"id"`
	ShopName string `bson:"shopName" json:"shop_name"`
}
