package router

import (
	"context"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/stretchr/testify/mock"
)

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Find(ctx context.Context, q domain.Query) ([]domain.RawListingRecord, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawListingRecord), args.Error(1)
}
func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.RawListingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawListingRecord), args.Error(1)
}
func (m *MockListingRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.RawListingRecord, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawListingRecord), args.Error(1)
}
func (m *MockListingRepository) IncrementViews(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockListingRepository) AddImage(ctx context.Context, listingID string, img domain.ListingImage) error {
	return m.Called(ctx, listingID, img).Error(0)
}
func (m *MockListingRepository) Insert(ctx context.Context, rec *domain.RawListingRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}
func (m *MockListingRepository) Update(ctx context.Context, rec *domain.RawListingRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) ListBrands(ctx context.Context, popularOnly bool) ([]domain.Brand, error) {
	args := m.Called(ctx, popularOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Brand), args.Error(1)
}
func (m *MockCatalogRepository) ListModels(ctx context.Context, brandID int64) ([]domain.Model, error) {
	args := m.Called(ctx, brandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Model), args.Error(1)
}
func (m *MockCatalogRepository) BrandIDsByName(ctx context.Context, term string) ([]int64, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockCatalogRepository) ModelIDsByName(ctx context.Context, term string) ([]int64, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockFavoriteRepository struct{ mock.Mock }

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, listingID string) error {
	return m.Called(ctx, userID, listingID).Error(0)
}
func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	return m.Called(ctx, userID, listingID).Error(0)
}
func (m *MockFavoriteRepository) ListingIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}
func (m *MockReviewRepository) FindByListingID(ctx context.Context, listingID string) ([]domain.Review, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type MockSessionRevoker struct{ mock.Mock }

func (m *MockSessionRevoker) Revoke(ctx context.Context, viewer domain.Viewer) error {
	return m.Called(ctx, viewer).Error(0)
}

type MockMessageRepository struct{ mock.Mock }

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockMessageRepository) Between(ctx context.Context, a, b string) ([]domain.Message, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepository) Involving(ctx context.Context, userID string) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockMessageRepository) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	args := m.Called(ctx, receiverID, senderID)
	return args.Get(0).(int64), args.Error(1)
}
