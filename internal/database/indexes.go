package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	if _, err := indexes.CreateOne(ctx, emailIndex); err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	categoryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("category_createdAt"),
	}

	log.Println("EnsureProductIndexes: creating category_createdAt index")
	if _, err := indexes.CreateOne(ctx, categoryIndex); err != nil {
		log.Println("EnsureProductIndexes: category index error:", err)
		return err
	}
	log.Println("EnsureProductIndexes: category_createdAt index created")
	return nil
}

// EnsureAddressIndexes also installs the partial unique index that allows a
// single isDefault=true address per user.
func EnsureAddressIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("addresses").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_createdAt"),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName("userId_default_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDefault": true}),
		},
	}

	log.Println("EnsureAddressIndexes: creating address indexes")
	if _, err := indexes.CreateMany(ctx, models); err != nil {
		log.Println("EnsureAddressIndexes: address index error:", err)
		return err
	}
	log.Println("EnsureAddressIndexes: address indexes created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_createdAt"),
		},
		{
			Keys: bson.D{{Key: "orderId", Value: 1}},
			Options: options.Index().
				SetName("orderId_unique").
				SetUnique(true),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	if _, err := indexes.CreateMany(ctx, models); err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}
