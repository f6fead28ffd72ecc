package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/CkBu3u/DiplomFinal/internal/platform/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PhotoUsecase struct {
	storage   domain.Storage
	listings  domain.ListingRepository
	cache     domain.CacheRepository
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
	feedKey   string
	now       func() time.Time
}

func NewPhotoUsecase(
	storage domain.Storage,
	listings domain.ListingRepository,
	cache domain.CacheRepository,
	pub domain.EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
	feedSize int,
) *PhotoUsecase {
	return &PhotoUsecase{
		storage:   storage,
		listings:  listings,
		cache:     cache,
		publisher: pub,
		metrics:   m,
		logger:    log.Named("photo_uc"),
		feedKey:   FeedCacheKey(feedSize),
		now:       time.Now,
	}
}

type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
	IsMain      bool
}

// UploadImage stores an image for a listing the viewer owns and returns its URL.
func (uc *PhotoUsecase) UploadImage(ctx context.Context, viewer domain.Viewer, listingID string, up ImageUpload) (string, error) {
	if viewer.IsAnonymous() {
		return "", domain.ErrUnauthenticated
	}
	if uc.storage == nil {
		return "", errors.New("PhotoUsecase.UploadImage: image storage is not configured")
	}
	if len(up.Data) == 0 || !strings.HasPrefix(up.ContentType, "image/") {
		return "", fmt.Errorf("PhotoUsecase.UploadImage: %w: expected a non-empty image", domain.ErrInvalidInput)
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return "", err
		}
		return "", fmt.Errorf("PhotoUsecase.UploadImage: %w", err)
	}
	if listing.UserID != viewer.ID {
		uc.logger.Warn("image upload by non-owner", zap.String("user_id", viewer.ID), zap.String("listing_id", listingID))
		return "", domain.ErrForbidden
	}

	key := fmt.Sprintf("%s/%d_%s%s", listingID, uc.now().Unix(), uuid.NewString(), strings.ToLower(filepath.Ext(up.FileName)))
	url, err := uc.storage.Upload(ctx, key, up.ContentType, up.Data)
	if err != nil {
		uc.logger.Error("image upload failed", zap.String("listing_id", listingID), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("PhotoUsecase.UploadImage: upload: %w", err)
	}

	if err := uc.listings.AddImage(ctx, listingID, domain.ListingImage{URL: url, IsMain: up.IsMain}); err != nil {
		uc.logger.Error("failed to attach uploaded image", zap.String("listing_id", listingID), zap.String("url", url), zap.Error(err))
		if delErr := uc.storage.Delete(ctx, key); delErr != nil {
			uc.logger.Error("orphaned image left in storage", zap.String("key", key), zap.Error(delErr))
		}
		return "", fmt.Errorf("PhotoUsecase.UploadImage: attach: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, uc.feedKey); err != nil {
			uc.logger.Warn("failed to invalidate feed cache", zap.Error(err))
		}
	}
	uc.metrics.ObserveImageUploaded()
	publish(ctx, uc.publisher, uc.logger, SubjectListingImageUploaded, ImageUploadedEvent{ListingID: listingID, URL: url, IsMain: up.IsMain})
	return url, nil
}
