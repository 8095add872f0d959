package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
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

	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		logrus.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	// Covers catalog filtering by price range, category and seller.
	catalogIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "price", Value: 1},
			{Key: "category", Value: 1},
			{Key: "seller", Value: 1},
		},
		Options: options.Index().SetName("price_category_seller"),
	}

	_, err := indexes.CreateOne(ctx, catalogIndex)
	if err != nil {
		logrus.Println("EnsureProductIndexes: catalog index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	// "My orders" is always buyer-scoped, newest first.
	buyerIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "buyer", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("buyer_createdAt"),
	}

	_, err := indexes.CreateOne(ctx, buyerIndex)
	if err != nil {
		logrus.Println("EnsureOrderIndexes: buyer index error:", err)
		return err
	}
	return nil
}
