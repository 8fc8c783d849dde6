package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pramodporuwa/shopsense/internal/domain/models"
)

const (
	invoiceItemsCollection = "invoiceitems"
	inventoryCollection    = "inventories"
	shopsCollection        = "shops"
	reportsCollection      = "reports"
)

// Repository holds the shared MongoDB connection. It is acquired once at
// startup and reused across all calls; the analytics queries live in
// analytics_store.go.
type Repository struct {
	client *mongo.Client
	dbName string
}

// NewRepository connects to MongoDB and verifies the connection with a ping.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName}, nil
}

// SaveReport persists a generated analytics report.
func (r *Repository) SaveReport(ctx context.Context, report models.Report) error {
	collection := r.collection(reportsCollection)
	if _, err := collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}
