package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxNameMatches caps free-text catalog expansion.
const maxNameMatches = 50

type CatalogRepository struct {
	brands *mongo.Collection
	models *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		brands: db.Collection(brandsCollection),
		models: db.Collection(modelsCollection),
	}
}

func (r *CatalogRepository) ListBrands(ctx context.Context, popularOnly bool) ([]domain.Brand, error) {
	filter := bson.M{}
	if popularOnly {
		filter["is_popular"] = true
	}
	cursor, err := r.brands.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("CatalogRepository.ListBrands: %w", mapMongoError(err))
	}
	defer cursor.Close(ctx)

	var docs []brandDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("CatalogRepository.ListBrands: %w", mapMongoError(err))
	}
	brands := make([]domain.Brand, 0, len(docs))
	for i := range docs {
		brands = append(brands, toDomainBrand(&docs[i]))
	}
	return brands, nil
}

func (r *CatalogRepository) ListModels(ctx context.Context, brandID int64) ([]domain.Model, error) {
	cursor, err := r.models.Find(ctx, bson.M{"brand_id": brandID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("CatalogRepository.ListModels: %w", mapMongoError(err))
	}
	defer cursor.Close(ctx)

	var docs []modelDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("CatalogRepository.ListModels: %w", mapMongoError(err))
	}
	models := make([]domain.Model, 0, len(docs))
	for i := range docs {
		models = append(models, toDomainModel(&docs[i]))
	}
	return models, nil
}

func (r *CatalogRepository) BrandIDsByName(ctx context.Context, term string) ([]int64, error) {
	ids, err := idsByName(ctx, r.brands, term)
	if err != nil {
		return nil, fmt.Errorf("CatalogRepository.BrandIDsByName: %w", err)
	}
	return ids, nil
}

func (r *CatalogRepository) ModelIDsByName(ctx context.Context, term string) ([]int64, error) {
	ids, err := idsByName(ctx, r.models, term)
	if err != nil {
		return nil, fmt.Errorf("CatalogRepository.ModelIDsByName: %w", err)
	}
	return ids, nil
}

func idsByName(ctx context.Context, coll *mongo.Collection, term string) ([]int64, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(maxNameMatches)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID int64 `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err)
	}
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
