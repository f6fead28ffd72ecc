package usecase

import (
	"context"
	"fmt"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/listing/favorite"
	"github.com/CkBu3u/DiplomFinal/internal/listing/normalizer"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/CkBu3u/DiplomFinal/internal/platform/metrics"
	"go.uber.org/zap"
)

type FavoriteUsecase struct {
	repo       domain.FavoriteRepository
	listings   domain.ListingRepository
	reconciler *favorite.Reconciler
	normalizer *normalizer.Normalizer
	publisher  domain.EventPublisher
	metrics    *metrics.MetricsManager
	logger     *logger.Logger
}

func NewFavoriteUsecase(
	repo domain.FavoriteRepository,
	listings domain.ListingRepository,
	reconciler *favorite.Reconciler,
	norm *normalizer.Normalizer,
	pub domain.EventPublisher,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *FavoriteUsecase {
	return &FavoriteUsecase{
		repo:       repo,
		listings:   listings,
		reconciler: reconciler,
		normalizer: norm,
		publisher:  pub,
		metrics:    m,
		logger:     log.Named("favorite_uc"),
	}
}

// List returns the viewer's favorite listings, newest favorite first.
// Favorites whose listing is gone are skipped.
func (uc *FavoriteUsecase) List(ctx context.Context, viewer domain.Viewer) ([]domain.DisplayListing, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	ids, err := uc.repo.ListingIDs(ctx, viewer.ID)
	if err != nil {
		uc.logger.Error("failed to fetch favorites", zap.String("user_id", viewer.ID), zap.Error(err))
		return []domain.DisplayListing{}, fmt.Errorf("FavoriteUsecase.List: %w", err)
	}
	if len(ids) == 0 {
		return []domain.DisplayListing{}, nil
	}

	records, err := uc.listings.FindByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("failed to fetch favorite listings", zap.String("user_id", viewer.ID), zap.Error(err))
		return []domain.DisplayListing{}, fmt.Errorf("FavoriteUsecase.List: %w: %w", domain.ErrRemoteQuery, err)
	}
	items := uc.normalizer.NormalizeAll(records)
	for i := range items {
		items[i].IsFavorite = true
	}
	return items, nil
}

// Toggle flips the viewer's favorite on listingID from the state the caller
// last saw.
func (uc *FavoriteUsecase) Toggle(ctx context.Context, viewer domain.Viewer, listingID string, currentlyFavorited bool) favorite.Outcome {
	set := favorite.NewSet()
	if currentlyFavorited {
		set = favorite.NewSet(listingID)
	}

	out := uc.reconciler.Toggle(ctx, viewer, set, listingID, currentlyFavorited)

	action, subject := "add", SubjectFavoriteAdded
	if currentlyFavorited {
		action, subject = "remove", SubjectFavoriteRemoved
	}
	uc.metrics.ObserveToggle(action, out.Class.String())

	if out.Err == nil {
		uc.logger.Info("favorite toggled",
			zap.String("user_id", viewer.ID),
			zap.String("listing_id", listingID),
			zap.Bool("favorited", out.Favorited),
		)
		publish(ctx, uc.publisher, uc.logger, subject, FavoriteEvent{UserID: viewer.ID, ListingID: listingID})
	}
	return out
}
