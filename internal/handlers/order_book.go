package handlers

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

var (
	errOrderNotFound = errors.New("order not found")
	errOrderExists   = errors.New("order already exists")
	errStatusChanged = errors.New("order status changed concurrently")
)

// OrderBook persists placed orders.
type OrderBook struct {
	db *mongo.Database
}

func NewOrderBook(db *mongo.Database) *OrderBook {
	return &OrderBook{db: db}
}

func (b *OrderBook) collection() *mongo.Collection {
	return b.db.Collection("orders")
}

func (b *OrderBook) Insert(ctx context.Context, order *models.Order) error {
	res, err := b.collection().InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errOrderExists
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

// List returns orders newest first. A zero userID lists every order.
func (b *OrderBook) List(ctx context.Context, userID primitive.ObjectID, status string, page, limit int64) ([]models.Order, int64, error) {
	filter := bson.M{}
	if !userID.IsZero() {
		filter["userId"] = userID
	}
	if status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetSkip((page - 1) * limit).SetLimit(limit)
	}

	total, err := b.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := b.collection().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (b *OrderBook) Get(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	err := b.collection().FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, errOrderNotFound
	}
	return order, err
}

// UpdateStatus moves an order from one status to the next. The write only
// applies while the order is still in the from status.
func (b *OrderBook) UpdateStatus(ctx context.Context, orderID, from, to string) (models.Order, error) {
	var updated models.Order
	err := b.collection().FindOneAndUpdate(ctx,
		bson.M{"orderId": orderID, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, errStatusChanged
	}
	return updated, err
}
