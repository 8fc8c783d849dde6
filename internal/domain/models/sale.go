package models

import "time"

// SaleEvent is one line item of a completed transaction, as stored in the
// invoiceitems collection. Rows are append-only: they are written at checkout
// and never mutated or deleted. Amount is trusted to equal quantity * price at
// write time and is not re-validated here.
type SaleEvent struct {
	ProductID   string    `bson:"productId" json:"product_id"`
	ProductName string    `bson:"productName" json:"product_name"`
	ShopID      string    `bson:"shopId" json:"shop_id"`
	Quantity    int64     `bson:"quantity" json:"quantity"`
	Amount      float64   `bson:"amount" json:"amount"`
	Price       float64   `bson:"price" json:"price"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
}
