package usecase

import (
	"context"
	"time"

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
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepository) AddImage(ctx context.Context, listingID string, img domain.ListingImage) error {
	args := m.Called(ctx, listingID, img)
	return args.Error(0)
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
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
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
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepository) FindByListingID(ctx context.Context, listingID string) ([]domain.Review, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetEmailByID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
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

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Upload(ctx context.Context, objectKey, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, objectKey, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockSessionRevoker struct{ mock.Mock }

func (m *MockSessionRevoker) Revoke(ctx context.Context, viewer domain.Viewer) error {
	args := m.Called(ctx, viewer)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendNewReviewEmail(toEmail, listingTitle string, rating int) error {
	args := m.Called(toEmail, listingTitle, rating)
	return args.Error(0)
}
