package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type FavoriteRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewFavoriteRepository expects the unique (user_id, listing_id) index from
// EnsureIndexes.
func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{
		collection: db.Collection(favoriteCollection),
		logger:     log.Named("favorite_repo"),
	}
}

// Add is an upsert, so adding a pair twice is a success.
func (r *FavoriteRepository) Add(ctx context.Context, userID, listingID string) error {
	if userID == "" || listingID == "" {
		return fmt.Errorf("FavoriteRepository.Add: %w", domain.ErrInvalidInput)
	}

	filter := bson.M{"user_id": userID, "listing_id": listingID}
	update := bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// Two concurrent upserts of one pair: the loser sees the unique index.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		r.logger.Error("favorite upsert failed", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return fmt.Errorf("FavoriteRepository.Add: %w", mapMongoError(err))
	}
	return nil
}

// Remove succeeds when the pair is already absent.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	if userID == "" || listingID == "" {
		return fmt.Errorf("FavoriteRepository.Remove: %w", domain.ErrInvalidInput)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		r.logger.Error("favorite delete failed", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return fmt.Errorf("FavoriteRepository.Remove: %w", mapMongoError(err))
	}
	if res.DeletedCount == 0 {
		r.logger.Debug("favorite already absent", zap.String("user_id", userID), zap.String("listing_id", listingID))
	}
	return nil
}

func (r *FavoriteRepository) ListingIDs(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"listing_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("FavoriteRepository.ListingIDs: %w", mapMongoError(err))
	}
	defer cursor.Close(ctx)

	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("FavoriteRepository.ListingIDs: %w", mapMongoError(err))
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ListingID)
	}
	return ids, nil
}
