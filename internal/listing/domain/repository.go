package domain

import (
	"context"
	"time"
)

type ListingRepository interface {
	Find(ctx context.Context, q Query) ([]RawListingRecord, error)
	FindByID(ctx context.Context, id string) (*RawListingRecord, error)
	// FindByIDs keeps the order of ids and skips the ones that no longer exist.
	FindByIDs(ctx context.Context, ids []string) ([]RawListingRecord, error)
	IncrementViews(ctx context.Context, id string) error
	AddImage(ctx context.Context, listingID string, img ListingImage) error
	// Insert stores rec and returns the new listing id.
	Insert(ctx context.Context, rec *RawListingRecord) (string, error)
	// Update writes the editable columns and status of rec.
	Update(ctx context.Context, rec *RawListingRecord) error
	// Delete removes the listing with its images and favorite rows.
	Delete(ctx context.Context, id string) error
}

type CatalogRepository interface {
	ListBrands(ctx context.Context, popularOnly bool) ([]Brand, error)
	ListModels(ctx context.Context, brandID int64) ([]Model, error)
	// BrandIDsByName and ModelIDsByName match names by case-insensitive substring.
	BrandIDsByName(ctx context.Context, term string) ([]int64, error)
	ModelIDsByName(ctx context.Context, term string) ([]int64, error)
}

// FavoriteRepository is the remote favorite store. Add and Remove are
// idempotent: adding a present pair or removing a missing one succeeds.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, listingID string) error
	Remove(ctx context.Context, userID, listingID string) error
	// ListingIDs returns the viewer's favorites, newest first.
	ListingIDs(ctx context.Context, userID string) ([]string, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	FindByListingID(ctx context.Context, listingID string) ([]Review, error)
}

type UserRepository interface {
	GetEmailByID(ctx context.Context, userID string) (string, error)
	// DisplayNames maps user ids to display names. Unknown ids are absent.
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	// Between returns the messages exchanged by a and b, oldest first.
	Between(ctx context.Context, a, b string) ([]Message, error)
	// Involving returns the messages userID sent or received, newest first.
	Involving(ctx context.Context, userID string) ([]Message, error)
	// MarkRead flags the unread messages from senderID to receiverID.
	MarkRead(ctx context.Context, receiverID, senderID string) (int64, error)
}

type Storage interface {
	Upload(ctx context.Context, objectKey, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

// CacheRepository.Get returns ErrCacheMiss for absent keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

const ErrCacheMiss = CacheError("key not found in cache")

// SessionRevoker signs a viewer out on the server side.
type SessionRevoker interface {
	Revoke(ctx context.Context, viewer Viewer) error
}

// EventPublisher is fire-and-forget: callers log failures and move on.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}
