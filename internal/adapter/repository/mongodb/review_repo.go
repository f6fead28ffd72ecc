package mongodb

import (
	"context"
	"fmt"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(reviewsCollection)}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	res, err := r.collection.InsertOne(ctx, toReviewDocument(review))
	if err != nil {
		return fmt.Errorf("ReviewRepository.Create: %w", mapMongoError(err))
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid.Hex()
	}
	return nil
}

func (r *ReviewRepository) FindByListingID(ctx context.Context, listingID string) ([]domain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindByListingID: %w", mapMongoError(err))
	}
	defer cursor.Close(ctx)

	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("ReviewRepository.FindByListingID: %w", mapMongoError(err))
	}
	reviews := make([]domain.Review, 0, len(docs))
	for i := range docs {
		reviews = append(reviews, toDomainReview(&docs[i]))
	}
	return reviews, nil
}
