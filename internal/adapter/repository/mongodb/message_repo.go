package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxInboxScan bounds the messages read to build the conversation list.
const maxInboxScan = 1000

type MessageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{collection: db.Collection(messagesCollection)}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	doc := messageDocument{
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		ListingID:  msg.ListingID,
		Content:    msg.Content,
		IsRead:     msg.IsRead,
		CreatedAt:  msg.CreatedAt,
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("MessageRepository.Create: %w", mapMongoError(err))
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid.Hex()
	}
	return nil
}

func (r *MessageRepository) Between(ctx context.Context, a, b string) ([]domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	msgs, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("MessageRepository.Between: %w", err)
	}
	return msgs, nil
}

func (r *MessageRepository) Involving(ctx context.Context, userID string) ([]domain.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(maxInboxScan)
	msgs, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("MessageRepository.Involving: %w", err)
	}
	return msgs, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("MessageRepository.MarkRead: %w", mapMongoError(err))
	}
	return res.ModifiedCount, nil
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Message, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(err)
	}
	defer cursor.Close(ctx)

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapMongoError(err)
	}
	msgs := make([]domain.Message, 0, len(docs))
	for i := range docs {
		msgs = append(msgs, toDomainMessage(&docs[i]))
	}
	return msgs, nil
}
