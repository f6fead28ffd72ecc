package usecase

import (
	"context"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"go.uber.org/zap"
)

// publish sends a domain event and only logs a failure.
func publish(ctx context.Context, pub domain.EventPublisher, log *logger.Logger, subject string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, subject, payload); err != nil {
		log.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

// Event subjects and payloads. The NATS adapter uses the same names.
const (
	SubjectFavoriteAdded        = "favorite.added"
	SubjectFavoriteRemoved      = "favorite.removed"
	SubjectReviewCreated        = "review.created"
	SubjectListingImageUploaded = "listing.image_uploaded"
	SubjectListingCreated       = "listing.created"
	SubjectListingUpdated       = "listing.updated"
	SubjectListingDeleted       = "listing.deleted"
	SubjectMessageSent          = "message.sent"
)

type MessageEvent struct {
	MessageID  string `json:"message_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	ListingID  string `json:"listing_id,omitempty"`
}

type ListingEvent struct {
	ListingID string               `json:"listing_id"`
	UserID    string               `json:"user_id"`
	Status    domain.ListingStatus `json:"status,omitempty"`
}

type FavoriteEvent struct {
	UserID    string `json:"user_id"`
	ListingID string `json:"listing_id"`
}

type ReviewCreatedEvent struct {
	ReviewID  string `json:"review_id"`
	ListingID string `json:"listing_id"`
	SellerID  string `json:"seller_id"`
	Rating    int    `json:"rating"`
}

type ImageUploadedEvent struct {
	ListingID string `json:"listing_id"`
	URL       string `json:"url"`
	IsMain    bool   `json:"is_main"`
}
