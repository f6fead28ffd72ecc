package favorite

import (
	"context"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/stretchr/testify/mock"
)

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

type MockSessionRevoker struct{ mock.Mock }

func (m *MockSessionRevoker) Revoke(ctx context.Context, viewer domain.Viewer) error {
	args := m.Called(ctx, viewer)
	return args.Error(0)
}
