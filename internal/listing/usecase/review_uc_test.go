package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reviewDeps struct {
	reviews   *MockReviewRepository
	listings  *MockListingRepository
	users     *MockUserRepository
	mailer    *MockMailer
	publisher *MockPublisher
}

func newReviewUsecase() (*ReviewUsecase, reviewDeps) {
	d := reviewDeps{
		reviews:   new(MockReviewRepository),
		listings:  new(MockListingRepository),
		users:     new(MockUserRepository),
		mailer:    new(MockMailer),
		publisher: new(MockPublisher),
	}
	return NewReviewUsecase(d.reviews, d.listings, d.users, d.mailer, d.publisher, nil, logger.NewNop()), d
}

func TestReviewCreate_Success(t *testing.T) {
	uc, d := newReviewUsecase()
	ctx := context.Background()

	d.listings.On("FindByID", ctx, "l1").Return(&domain.RawListingRecord{ID: "l1", UserID: "seller", Title: "Lada Vesta"}, nil)
	d.reviews.On("Create", ctx, mock.MatchedBy(func(r *domain.Review) bool {
		return r.ReviewerID == "buyer" && r.SellerID == "seller" && r.Rating == 4 && r.Comment == "ok"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Review).ID = "r1"
	}).Return(nil)
	d.publisher.On("Publish", ctx, SubjectReviewCreated, ReviewCreatedEvent{ReviewID: "r1", ListingID: "l1", SellerID: "seller", Rating: 4}).Return(nil)
	d.users.On("GetEmailByID", ctx, "seller").Return("seller@example.com", nil)
	d.mailer.On("SendNewReviewEmail", "seller@example.com", "Lada Vesta", 4).Return(nil)

	review, err := uc.Create(ctx, domain.Viewer{ID: "buyer"}, "l1", 4, "  ok ")
	require.NoError(t, err)
	assert.Equal(t, "r1", review.ID)
	d.mailer.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}

func TestReviewCreate_MailFailureIgnored(t *testing.T) {
	uc, d := newReviewUsecase()
	ctx := context.Background()

	d.listings.On("FindByID", ctx, "l1").Return(&domain.RawListingRecord{ID: "l1", UserID: "seller"}, nil)
	d.reviews.On("Create", ctx, mock.Anything).Return(nil)
	d.publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil)
	d.users.On("GetEmailByID", ctx, "seller").Return("", errors.New("no user"))

	_, err := uc.Create(ctx, domain.Viewer{ID: "buyer"}, "l1", 5, "")
	require.NoError(t, err)
	d.mailer.AssertNotCalled(t, "SendNewReviewEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreate_Validation(t *testing.T) {
	uc, d := newReviewUsecase()
	ctx := context.Background()
	buyer := domain.Viewer{ID: "buyer"}

	_, err := uc.Create(ctx, domain.Anonymous(), "l1", 5, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	for _, rating := range []int{0, 6, -1} {
		_, err = uc.Create(ctx, buyer, "l1", rating, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "rating %d", rating)
	}

	_, err = uc.Create(ctx, buyer, "l1", 3, strings.Repeat("я", maxCommentLength+1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d.listings.On("FindByID", ctx, "own").Return(&domain.RawListingRecord{ID: "own", UserID: "buyer"}, nil)
	_, err = uc.Create(ctx, buyer, "own", 5, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	d.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewListByListing(t *testing.T) {
	uc, d := newReviewUsecase()
	ctx := context.Background()

	d.reviews.On("FindByListingID", ctx, "l1").Return([]domain.Review{{ID: "r1"}}, nil)
	d.reviews.On("FindByListingID", ctx, "l2").Return(nil, errors.New("down"))

	got, err := uc.ListByListing(ctx, "l1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = uc.ListByListing(ctx, "l2")
	assert.Error(t, err)
	assert.Empty(t, got)
}
