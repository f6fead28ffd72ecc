package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/listing/favorite"
	"github.com/CkBu3u/DiplomFinal/internal/listing/normalizer"
	"github.com/CkBu3u/DiplomFinal/internal/listing/query"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/CkBu3u/DiplomFinal/internal/platform/metrics"
	"go.uber.org/zap"
)

// FeedCacheKey is the cache key of the latest-listings feed of the given size.
func FeedCacheKey(size int) string {
	return fmt.Sprintf("listings:latest:%d", size)
}

type SearchResult struct {
	Items    []domain.DisplayListing `json:"items"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

type SearchOptions struct {
	DefaultPageSize int
	FeedSize        int
	FeedCacheTTL    time.Duration
}

type SearchUsecase struct {
	listings   domain.ListingRepository
	catalog    domain.CatalogRepository
	cache      domain.CacheRepository
	normalizer *normalizer.Normalizer
	favorites  *favorite.Reconciler
	metrics    *metrics.MetricsManager
	logger     *logger.Logger
	opts       SearchOptions
}

func NewSearchUsecase(
	listings domain.ListingRepository,
	catalog domain.CatalogRepository,
	cache domain.CacheRepository,
	norm *normalizer.Normalizer,
	favorites *favorite.Reconciler,
	m *metrics.MetricsManager,
	log *logger.Logger,
	opts SearchOptions,
) *SearchUsecase {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = domain.DefaultPageSize
	}
	if opts.FeedSize <= 0 {
		opts.FeedSize = 50
	}
	return &SearchUsecase{
		listings:   listings,
		catalog:    catalog,
		cache:      cache,
		normalizer: norm,
		favorites:  favorites,
		metrics:    m,
		logger:     log.Named("search_uc"),
		opts:       opts,
	}
}

// Search runs one paged search. A store failure yields an empty page and an
// error wrapping domain.ErrRemoteQuery; partial results are never returned.
func (uc *SearchUsecase) Search(ctx context.Context, viewer domain.Viewer, in domain.FilterInput) (SearchResult, error) {
	f := domain.NormalizeFilterWithPageSize(in, uc.opts.DefaultPageSize)
	result := SearchResult{Items: []domain.DisplayListing{}, Page: f.Page, PageSize: f.PageSize}

	if f.FreeText != "" {
		uc.expandFreeText(ctx, &f)
	}

	records, err := uc.listings.Find(ctx, query.Build(f))
	if err != nil {
		uc.metrics.ObserveSearch("error")
		uc.logger.Error("listing search failed",
			zap.String("free_text", f.FreeText),
			zap.Int("page", f.Page),
			zap.Error(err),
		)
		return result, fmt.Errorf("SearchUsecase.Search: %w: %w", domain.ErrRemoteQuery, err)
	}
	uc.metrics.ObserveSearch("ok")

	result.Items = uc.normalizer.NormalizeAll(records)
	uc.applyFavorites(ctx, viewer, result.Items)
	return result, nil
}

// expandFreeText resolves catalog names matching the free text. Lookup
// failures only narrow the search, so they are logged and ignored.
func (uc *SearchUsecase) expandFreeText(ctx context.Context, f *domain.ListingFilter) {
	brandIDs, err := uc.catalog.BrandIDsByName(ctx, f.FreeText)
	if err != nil {
		uc.logger.Warn("brand name expansion failed", zap.String("free_text", f.FreeText), zap.Error(err))
	}
	modelIDs, err := uc.catalog.ModelIDsByName(ctx, f.FreeText)
	if err != nil {
		uc.logger.Warn("model name expansion failed", zap.String("free_text", f.FreeText), zap.Error(err))
	}
	f.SearchBrandIDs = brandIDs
	f.SearchModelIDs = modelIDs
}

// Latest returns the newest active listings, served from cache when possible.
func (uc *SearchUsecase) Latest(ctx context.Context, viewer domain.Viewer) ([]domain.DisplayListing, error) {
	key := FeedCacheKey(uc.opts.FeedSize)

	if items, ok := uc.cachedFeed(ctx, key); ok {
		uc.metrics.ObserveFeedCache(true)
		uc.applyFavorites(ctx, viewer, items)
		return items, nil
	}
	uc.metrics.ObserveFeedCache(false)

	f := domain.ListingFilter{Sort: domain.SortNewest, Page: 1, PageSize: uc.opts.FeedSize}
	records, err := uc.listings.Find(ctx, query.Build(f))
	if err != nil {
		uc.logger.Error("latest listings query failed", zap.Error(err))
		return []domain.DisplayListing{}, fmt.Errorf("SearchUsecase.Latest: %w: %w", domain.ErrRemoteQuery, err)
	}
	items := uc.normalizer.NormalizeAll(records)

	if uc.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := uc.cache.Set(ctx, key, data, uc.opts.FeedCacheTTL); err != nil {
				uc.logger.Warn("failed to cache latest listings", zap.Error(err))
			}
		}
	}

	uc.applyFavorites(ctx, viewer, items)
	return items, nil
}

func (uc *SearchUsecase) cachedFeed(ctx context.Context, key string) ([]domain.DisplayListing, bool) {
	if uc.cache == nil {
		return nil, false
	}
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			uc.logger.Warn("feed cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var items []domain.DisplayListing
	if err := json.Unmarshal(data, &items); err != nil {
		uc.logger.Warn("feed cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return items, true
}

// applyFavorites marks the viewer's favorites. If the favorite set cannot be
// loaded every flag stays false.
func (uc *SearchUsecase) applyFavorites(ctx context.Context, viewer domain.Viewer, items []domain.DisplayListing) {
	if uc.favorites == nil || viewer.IsAnonymous() || len(items) == 0 {
		return
	}
	set, err := uc.favorites.Load(ctx, viewer)
	if err != nil {
		uc.logger.Warn("failed to load favorites for search results", zap.String("user_id", viewer.ID), zap.Error(err))
	}
	uc.favorites.Apply(items, set)
}
