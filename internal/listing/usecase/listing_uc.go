package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/listing/favorite"
	"github.com/CkBu3u/DiplomFinal/internal/listing/normalizer"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/CkBu3u/DiplomFinal/internal/platform/metrics"
	"go.uber.org/zap"
)

const (
	maxTitleLength = 200
	minListingYear = 1900
)

type ListingUsecase struct {
	listings   domain.ListingRepository
	normalizer *normalizer.Normalizer
	favorites  *favorite.Reconciler
	cache      domain.CacheRepository
	publisher  domain.EventPublisher
	metrics    *metrics.MetricsManager
	logger     *logger.Logger
	feedKey    string
	now        func() time.Time
}

func NewListingUsecase(
	listings domain.ListingRepository,
	norm *normalizer.Normalizer,
	favorites *favorite.Reconciler,
	cache domain.CacheRepository,
	pub domain.EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
	feedSize int,
) *ListingUsecase {
	return &ListingUsecase{
		listings:   listings,
		normalizer: norm,
		favorites:  favorites,
		cache:      cache,
		publisher:  pub,
		metrics:    m,
		logger:     log.Named("listing_uc"),
		feedKey:    FeedCacheKey(feedSize),
		now:        time.Now,
	}
}

// GetByID returns one listing and counts the view. A failed view count does
// not fail the read.
func (uc *ListingUsecase) GetByID(ctx context.Context, viewer domain.Viewer, id string) (*domain.DisplayListing, error) {
	rec, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, err
		}
		uc.logger.Error("failed to load listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("ListingUsecase.GetByID: %w: %w", domain.ErrRemoteQuery, err)
	}

	d := uc.normalizer.Normalize(*rec)
	if viewer.IsAnonymous() || viewer.ID != rec.UserID {
		if err := uc.listings.IncrementViews(ctx, id); err != nil {
			uc.logger.Warn("failed to count listing view", zap.String("listing_id", id), zap.Error(err))
		} else {
			d.ViewsCount++
		}
	}

	if !viewer.IsAnonymous() && uc.favorites != nil {
		set, err := uc.favorites.Load(ctx, viewer)
		if err != nil {
			uc.logger.Warn("failed to load favorites", zap.String("user_id", viewer.ID), zap.Error(err))
		}
		d.IsFavorite = favorite.IsFavorited(d.ID, set)
	}
	return &d, nil
}

// Create publishes a new active listing owned by viewer. Title, brand, model,
// year and price are required.
func (uc *ListingUsecase) Create(ctx context.Context, viewer domain.Viewer, fields domain.ListingFields) (*domain.DisplayListing, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	if fields.Title == nil || fields.BrandID == nil || fields.ModelID == nil || fields.Year == nil || fields.Price == nil {
		return nil, fmt.Errorf("ListingUsecase.Create: %w: title, brand_id, model_id, year and price are required", domain.ErrInvalidInput)
	}

	rec := &domain.RawListingRecord{
		UserID:    viewer.ID,
		Status:    domain.StatusActive,
		CreatedAt: uc.now().UTC(),
	}
	applyFields(rec, fields)
	if err := uc.validate(rec); err != nil {
		return nil, fmt.Errorf("ListingUsecase.Create: %w", err)
	}

	id, err := uc.listings.Insert(ctx, rec)
	if err != nil {
		uc.logger.Error("failed to create listing", zap.String("user_id", viewer.ID), zap.Error(err))
		return nil, fmt.Errorf("ListingUsecase.Create: %w", err)
	}
	rec.ID = id
	uc.logger.Info("listing created", zap.String("listing_id", id), zap.String("user_id", viewer.ID))

	uc.afterWrite(ctx, "create", SubjectListingCreated, rec)
	return uc.reload(ctx, rec), nil
}

// Update applies the non-nil fields to a listing the viewer owns.
func (uc *ListingUsecase) Update(ctx context.Context, viewer domain.Viewer, id string, fields domain.ListingFields) (*domain.DisplayListing, error) {
	rec, err := uc.loadOwned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	applyFields(rec, fields)
	if err := uc.validate(rec); err != nil {
		return nil, fmt.Errorf("ListingUsecase.Update: %w", err)
	}

	if err := uc.listings.Update(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, err
		}
		uc.logger.Error("failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("ListingUsecase.Update: %w", err)
	}

	uc.afterWrite(ctx, "update", SubjectListingUpdated, rec)
	return uc.reload(ctx, rec), nil
}

// UpdateStatus moves a listing the viewer owns to status. Sellers may only
// choose active, inactive or sold.
func (uc *ListingUsecase) UpdateStatus(ctx context.Context, viewer domain.Viewer, id string, status domain.ListingStatus) (*domain.DisplayListing, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	if !status.OwnerSettable() {
		return nil, fmt.Errorf("ListingUsecase.UpdateStatus: %w: status %q", domain.ErrInvalidInput, status)
	}
	rec, err := uc.loadOwned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if rec.Status == status {
		return uc.reload(ctx, rec), nil
	}

	rec.Status = status
	if err := uc.listings.Update(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, err
		}
		uc.logger.Error("failed to update listing status", zap.String("listing_id", id), zap.String("status", string(status)), zap.Error(err))
		return nil, fmt.Errorf("ListingUsecase.UpdateStatus: %w", err)
	}

	uc.afterWrite(ctx, "status", SubjectListingUpdated, rec)
	return uc.reload(ctx, rec), nil
}

// Delete removes a listing the viewer owns.
func (uc *ListingUsecase) Delete(ctx context.Context, viewer domain.Viewer, id string) error {
	rec, err := uc.loadOwned(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := uc.listings.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return err
		}
		uc.logger.Error("failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("ListingUsecase.Delete: %w", err)
	}

	uc.afterWrite(ctx, "delete", SubjectListingDeleted, rec)
	return nil
}

func (uc *ListingUsecase) loadOwned(ctx context.Context, viewer domain.Viewer, id string) (*domain.RawListingRecord, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	rec, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, err
		}
		uc.logger.Error("failed to load listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("ListingUsecase.loadOwned: %w: %w", domain.ErrRemoteQuery, err)
	}
	if rec.UserID != viewer.ID {
		uc.logger.Warn("listing change by non-owner",
			zap.String("listing_id", id),
			zap.String("owner_id", rec.UserID),
			zap.String("user_id", viewer.ID),
		)
		return nil, domain.ErrForbidden
	}
	return rec, nil
}

func (uc *ListingUsecase) validate(rec *domain.RawListingRecord) error {
	var problems []string
	if rec.Title == "" {
		problems = append(problems, "title is empty")
	} else if utf8.RuneCountInString(rec.Title) > maxTitleLength {
		problems = append(problems, fmt.Sprintf("title exceeds %d characters", maxTitleLength))
	}
	if rec.BrandID <= 0 {
		problems = append(problems, "brand_id must be positive")
	}
	if rec.ModelID <= 0 {
		problems = append(problems, "model_id must be positive")
	}
	if maxYear := uc.now().Year() + 1; rec.Year < minListingYear || rec.Year > maxYear {
		problems = append(problems, fmt.Sprintf("year must be between %d and %d", minListingYear, maxYear))
	}
	if rec.Price <= 0 {
		problems = append(problems, "price must be positive")
	}
	if rec.Mileage < 0 {
		problems = append(problems, "mileage is negative")
	}
	if v, ok := rec.EngineVolume.(float64); ok && v < 0 {
		problems = append(problems, "engine_volume is negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// afterWrite drops the cached feed, counts the write and announces it.
func (uc *ListingUsecase) afterWrite(ctx context.Context, op, subject string, rec *domain.RawListingRecord) {
	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, uc.feedKey); err != nil {
			uc.logger.Warn("failed to invalidate feed cache", zap.String("op", op), zap.Error(err))
		}
	}
	uc.metrics.ObserveListingWrite(op)
	publish(ctx, uc.publisher, uc.logger, subject, ListingEvent{ListingID: rec.ID, UserID: rec.UserID, Status: rec.Status})
}

// reload re-reads rec so the response carries joined catalog names. The
// write already happened, so a failed read falls back to rec itself.
func (uc *ListingUsecase) reload(ctx context.Context, rec *domain.RawListingRecord) *domain.DisplayListing {
	fresh, err := uc.listings.FindByID(ctx, rec.ID)
	if err != nil {
		uc.logger.Warn("failed to reload listing after write", zap.String("listing_id", rec.ID), zap.Error(err))
		fresh = rec
	}
	d := uc.normalizer.Normalize(*fresh)
	return &d
}

func applyFields(rec *domain.RawListingRecord, f domain.ListingFields) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	if f.BrandID != nil {
		rec.BrandID = *f.BrandID
	}
	if f.ModelID != nil {
		rec.ModelID = *f.ModelID
	}
	setString(&rec.Title, f.Title)
	setString(&rec.Description, f.Description)
	if f.Year != nil {
		rec.Year = *f.Year
	}
	if f.Price != nil {
		rec.Price = *f.Price
	}
	setString(&rec.Currency, f.Currency)
	setString(&rec.BodyType, f.BodyType)
	setString(&rec.EngineType, f.EngineType)
	if f.EngineVolume != nil {
		rec.EngineVolume = *f.EngineVolume
	}
	if f.EnginePower != nil {
		rec.EnginePower = *f.EnginePower
	}
	setString(&rec.Transmission, f.Transmission)
	setString(&rec.DriveType, f.DriveType)
	if f.Mileage != nil {
		rec.Mileage = *f.Mileage
	}
	setString(&rec.Condition, f.Condition)
	setString(&rec.Color, f.Color)
	setString(&rec.City, f.City)
}
