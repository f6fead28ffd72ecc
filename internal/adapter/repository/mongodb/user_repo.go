package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	return &UserRepository{
		collection: db.Collection(usersCollection),
		logger:     log.Named("user_repo"),
	}
}

// GetEmailByID looks a user up by hex ObjectID.
func (r *UserRepository) GetEmailByID(ctx context.Context, userID string) (string, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", fmt.Errorf("invalid user ID format: %w", domain.ErrUserNotFound)
	}

	var userDoc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}, options.FindOne().SetProjection(bson.M{"email": 1})).Decode(&userDoc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Info("user not found", zap.String("user_id", userID))
			return "", domain.ErrUserNotFound
		}
		r.logger.Error("failed to find user", zap.String("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("UserRepository.GetEmailByID: %w", mapMongoError(err))
	}
	return userDoc.Email, nil
}

func (r *UserRepository) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	objIDs := make([]primitive.ObjectID, 0, len(userIDs))
	for _, id := range userIDs {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}
	if len(objIDs) == 0 {
		return names, nil
	}

	opts := options.Find().SetProjection(bson.M{"display_name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.DisplayNames: %w", mapMongoError(err))
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("UserRepository.DisplayNames: %w", mapMongoError(err))
	}
	for _, d := range docs {
		if d.DisplayName != "" {
			names[d.ID.Hex()] = d.DisplayName
		}
	}
	return names, nil
}
