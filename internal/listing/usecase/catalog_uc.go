package usecase

import (
	"context"
	"fmt"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
)

type CatalogUsecase struct {
	catalog domain.CatalogRepository
}

func NewCatalogUsecase(catalog domain.CatalogRepository) *CatalogUsecase {
	return &CatalogUsecase{catalog: catalog}
}

func (uc *CatalogUsecase) Brands(ctx context.Context, popularOnly bool) ([]domain.Brand, error) {
	brands, err := uc.catalog.ListBrands(ctx, popularOnly)
	if err != nil {
		return []domain.Brand{}, fmt.Errorf("CatalogUsecase.Brands: %w", err)
	}
	return brands, nil
}

func (uc *CatalogUsecase) Models(ctx context.Context, brandID int64) ([]domain.Model, error) {
	if brandID <= 0 {
		return nil, fmt.Errorf("CatalogUsecase.Models: %w: bad brand id", domain.ErrInvalidInput)
	}
	models, err := uc.catalog.ListModels(ctx, brandID)
	if err != nil {
		return []domain.Model{}, fmt.Errorf("CatalogUsecase.Models: %w", err)
	}
	return models, nil
}
