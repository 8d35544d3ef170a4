package db

import (
	"context"
	"time"

	"andariego/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection      *mongo.Collection
	TourCollection      *mongo.Collection
	TransportCollection *mongo.Collection
	OfferCollection     *mongo.Collection
	CartCollection      *mongo.Collection
	OrderCollection     *mongo.Collection
	Client              *mongo.Client
)

// Connect dials MongoDB and binds the collection handles. Called once from
// main with the loaded config.
func Connect(ctx context.Context, cfg *config.Config) error {
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}
	Client = client

	database := client.Database(cfg.MongoDB)
	UserCollection = database.Collection("users")
	TourCollection = database.Collection("tours")
	TransportCollection = database.Collection("transports")
	OfferCollection = database.Collection("offers")
	CartCollection = database.Collection("carts")
	OrderCollection = database.Collection("orders")

	return ensureIndexes(ctx)
}

// Disconnect closes the client with a bounded timeout, for shutdown hooks.
func Disconnect() error {
	if Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context) error {
	_, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = TourCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = OfferCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "discountCode", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return err
	}
	// AddItems upserts against this pair; the index keeps the lookup cheap.
	_, err = CartCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isOrdered", Value: 1}},
	})
	return err
}
