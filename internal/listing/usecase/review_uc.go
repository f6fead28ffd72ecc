package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/mailer"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/CkBu3u/DiplomFinal/internal/platform/metrics"
	"go.uber.org/zap"
)

const maxCommentLength = 2000

type ReviewUsecase struct {
	reviews   domain.ReviewRepository
	listings  domain.ListingRepository
	users     domain.UserRepository
	mailer    mailer.Mailer
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
}

func NewReviewUsecase(
	reviews domain.ReviewRepository,
	listings domain.ListingRepository,
	users domain.UserRepository,
	m mailer.Mailer,
	pub domain.EventPublisher,
	mm *metrics.MetricsManager,
	log *logger.Logger,
) *ReviewUsecase {
	if m == nil {
		m = mailer.NopMailer{}
	}
	return &ReviewUsecase{
		reviews:   reviews,
		listings:  listings,
		users:     users,
		mailer:    m,
		publisher: pub,
		metrics:   mm,
		logger:    log.Named("review_uc"),
	}
}

// Create records the viewer's review of a listing's seller. Sellers cannot
// review their own listings.
func (uc *ReviewUsecase) Create(ctx context.Context, viewer domain.Viewer, listingID string, rating int, comment string) (*domain.Review, error) {
	if viewer.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	comment = strings.TrimSpace(comment)
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("ReviewUsecase.Create: %w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return nil, fmt.Errorf("ReviewUsecase.Create: %w: comment is too long", domain.ErrInvalidInput)
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("ReviewUsecase.Create: %w", err)
	}
	if listing.UserID == viewer.ID {
		return nil, fmt.Errorf("ReviewUsecase.Create: %w: cannot review own listing", domain.ErrForbidden)
	}

	review := &domain.Review{
		ReviewerID: viewer.ID,
		SellerID:   listing.UserID,
		ListingID:  listingID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.reviews.Create(ctx, review); err != nil {
		uc.logger.Error("failed to create review", zap.String("listing_id", listingID), zap.String("reviewer_id", viewer.ID), zap.Error(err))
		return nil, fmt.Errorf("ReviewUsecase.Create: %w", err)
	}

	uc.metrics.ObserveReviewCreated()
	publish(ctx, uc.publisher, uc.logger, SubjectReviewCreated, ReviewCreatedEvent{
		ReviewID:  review.ID,
		ListingID: listingID,
		SellerID:  review.SellerID,
		Rating:    rating,
	})
	uc.notifySeller(ctx, review, listing.Title)
	return review, nil
}

func (uc *ReviewUsecase) notifySeller(ctx context.Context, review *domain.Review, listingTitle string) {
	if uc.users == nil {
		return
	}
	email, err := uc.users.GetEmailByID(ctx, review.SellerID)
	if err != nil {
		uc.logger.Warn("could not resolve seller email", zap.String("seller_id", review.SellerID), zap.Error(err))
		return
	}
	if email == "" {
		return
	}
	if err := uc.mailer.SendNewReviewEmail(email, listingTitle, review.Rating); err != nil {
		uc.logger.Warn("failed to send review email", zap.String("seller_id", review.SellerID), zap.Error(err))
	}
}

func (uc *ReviewUsecase) ListByListing(ctx context.Context, listingID string) ([]domain.Review, error) {
	reviews, err := uc.reviews.FindByListingID(ctx, listingID)
	if err != nil {
		uc.logger.Error("failed to list reviews", zap.String("listing_id", listingID), zap.Error(err))
		return []domain.Review{}, fmt.Errorf("ReviewUsecase.ListByListing: %w", err)
	}
	return reviews, nil
}
