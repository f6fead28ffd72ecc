package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/config"
	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	listingsCollection = "listings"
	imagesCollection   = "listing_images"
	brandsCollection   = "brands"
	modelsCollection   = "models"
	usersCollection    = "users"
	favoriteCollection = "favorites"
	reviewsCollection  = "reviews"
	messagesCollection = "messages"
)

// Server error codes for a rejected service credential.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
)

func NewMongoDBConnection(cfg *config.MongoConfig) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URI)

	if cfg.Username != "" && cfg.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	if cfg.MinPoolSize > 0 {
		clientOptions.SetMinPoolSize(cfg.MinPoolSize)
	}
	if cfg.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is safe to
// call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		listingsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "brand_id", Value: 1}, {Key: "model_id", Value: 1}}},
		},
		imagesCollection: {
			{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "sort_order", Value: 1}}},
		},
		favoriteCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("EnsureIndexes: %s: %w", coll, mapMongoError(err))
		}
	}
	return nil
}

// mapMongoError tags authorization failures with domain.ErrStoreCredentials so
// callers can tell them apart from viewer-session failures without inspecting
// driver types.
func mapMongoError(err error) error {
	if err == nil {
		return nil
	}
	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(codeUnauthorized) || se.HasErrorCode(codeAuthenticationFailed)) {
		return fmt.Errorf("%w: %v", domain.ErrStoreCredentials, err)
	}
	return err
}
