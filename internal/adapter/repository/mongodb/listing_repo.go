package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ListingRepository struct {
	listings  *mongo.Collection
	images    *mongo.Collection
	favorites *mongo.Collection
	logger    *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		listings:  db.Collection(listingsCollection),
		images:    db.Collection(imagesCollection),
		favorites: db.Collection(favoriteCollection),
		logger:    log.Named("listing_repo"),
	}
}

func (r *ListingRepository) Find(ctx context.Context, q domain.Query) ([]domain.RawListingRecord, error) {
	filter, err := toBSONFilter(q)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.Find: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: toBSONSort(q.Order)}},
	}
	if q.Offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(q.Offset)}})
	}
	if q.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(q.Limit)}})
	}
	pipeline = append(pipeline, joinStages()...)

	records, err := r.aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("listing aggregate failed", zap.Int("offset", q.Offset), zap.Int("limit", q.Limit), zap.Error(err))
		return nil, fmt.Errorf("ListingRepository.Find: %w", err)
	}
	return records, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.RawListingRecord, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": objID}}},
		{{Key: "$limit", Value: int64(1)}},
	}
	pipeline = append(pipeline, joinStages()...)

	records, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.FindByID: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrListingNotFound
	}
	return &records[0], nil
}

func (r *ListingRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.RawListingRecord, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}
	if len(objIDs) == 0 {
		return []domain.RawListingRecord{}, nil
	}

	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": objIDs}}}}}
	pipeline = append(pipeline, joinStages()...)

	records, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.FindByIDs: %w", err)
	}

	byID := make(map[string]domain.RawListingRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	ordered := make([]domain.RawListingRecord, 0, len(records))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, rec)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.listings.UpdateByID(ctx, objID, bson.M{"$inc": bson.M{"views_count": 1}})
	if err != nil {
		return fmt.Errorf("ListingRepository.IncrementViews: %w", mapMongoError(err))
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// AddImage stores img for listingID. A main image demotes the previous one,
// and an image without an order goes last.
func (r *ListingRepository) AddImage(ctx context.Context, listingID string, img domain.ListingImage) error {
	if img.IsMain {
		if _, err := r.images.UpdateMany(ctx,
			bson.M{"listing_id": listingID, "is_main": true},
			bson.M{"$set": bson.M{"is_main": false}},
		); err != nil {
			return fmt.Errorf("ListingRepository.AddImage: demote main: %w", mapMongoError(err))
		}
	}

	if img.SortOrder == nil {
		count, err := r.images.CountDocuments(ctx, bson.M{"listing_id": listingID})
		if err != nil {
			return fmt.Errorf("ListingRepository.AddImage: count: %w", mapMongoError(err))
		}
		next := int(count)
		img.SortOrder = &next
	}

	doc := imageDocument{
		ListingID: listingID,
		URL:       img.URL,
		IsMain:    img.IsMain,
		SortOrder: img.SortOrder,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.images.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("ListingRepository.AddImage: %w", mapMongoError(err))
	}
	r.logger.Info("listing image stored", zap.String("listing_id", listingID), zap.Bool("is_main", img.IsMain))
	return nil
}

func (r *ListingRepository) Insert(ctx context.Context, rec *domain.RawListingRecord) (string, error) {
	doc := toListingDocument(rec)
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	res, err := r.listings.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("listing insert failed", zap.String("user_id", rec.UserID), zap.Error(err))
		return "", fmt.Errorf("ListingRepository.Insert: %w", mapMongoError(err))
	}
	objID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("ListingRepository.Insert: unexpected id type %T", res.InsertedID)
	}
	r.logger.Info("listing created", zap.String("listing_id", objID.Hex()), zap.String("user_id", rec.UserID))
	return objID.Hex(), nil
}

func (r *ListingRepository) Update(ctx context.Context, rec *domain.RawListingRecord) error {
	objID, err := primitive.ObjectIDFromHex(rec.ID)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.listings.UpdateByID(ctx, objID, bson.M{"$set": editableSet(rec, time.Now().UTC())})
	if err != nil {
		return fmt.Errorf("ListingRepository.Update: %w", mapMongoError(err))
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// Delete removes the listing first. Leftover image and favorite rows only
// log a warning: they point at a listing that no longer resolves.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.listings.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("ListingRepository.Delete: %w", mapMongoError(err))
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}

	if _, err := r.images.DeleteMany(ctx, bson.M{"listing_id": id}); err != nil {
		r.logger.Warn("failed to delete listing images", zap.String("listing_id", id), zap.Error(err))
	}
	if _, err := r.favorites.DeleteMany(ctx, bson.M{"listing_id": id}); err != nil {
		r.logger.Warn("failed to delete listing favorites", zap.String("listing_id", id), zap.Error(err))
	}
	r.logger.Info("listing deleted", zap.String("listing_id", id))
	return nil
}

func (r *ListingRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]domain.RawListingRecord, error) {
	cursor, err := r.listings.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.RawListingRecord{}, nil
		}
		return nil, mapMongoError(err)
	}

	records := make([]domain.RawListingRecord, 0, len(docs))
	for i := range docs {
		records = append(records, toRawListing(&docs[i]))
	}
	return records, nil
}
