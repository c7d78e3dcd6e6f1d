package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

const msgPartInfoType = "Please select a any one type of part"

// CatalogService serves the read-mostly lookups shared by staff and the
// customer portal.
type CatalogService struct {
	repos *repository.Repositories
}

func NewCatalogService(repos *repository.Repositories) *CatalogService {
	return &CatalogService{repos: repos}
}

func (s *CatalogService) Brands(ctx context.Context) ([]model.VehicleBrand, error) {
	return s.repos.Catalog.ListBrands(ctx)
}

func (s *CatalogService) Models(ctx context.Context, brandID uuid.UUID) ([]model.VehicleModel, error) {
	if _, err := s.repos.Catalog.GetBrand(ctx, brandID); err != nil {
		return nil, notFound(err)
	}
	return s.repos.Catalog.ModelsByBrand(ctx, brandID)
}

func (s *CatalogService) FuelTypes(ctx context.Context) ([]model.FuelType, error) {
	return s.repos.Catalog.ListFuelTypes(ctx)
}

func (s *CatalogService) Products(ctx context.Context, principal model.Principal, kinds []model.ProductKind, limit, offset int) ([]model.Product, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.Catalog.ListProducts(ctx, repository.ProductFilter{Kinds: kinds, Limit: limit, Offset: offset})
}

func (s *CatalogService) PartInfos(ctx context.Context, principal model.Principal, category model.PartCategory) ([]model.VehiclePartInfo, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.Catalog.ListPartInfos(ctx, category)
}

// CreatePartInfo adds a part to the classic inspection catalog. An existing
// entry with the same name and type is returned as is.
func (s *CatalogService) CreatePartInfo(ctx context.Context, principal model.Principal, name string, category model.PartCategory) (*model.VehiclePartInfo, error) {
	if !(principal.IsAdmin() || principal.IsManager()) {
		return nil, ErrPermissionDenied
	}
	if !category.Valid() {
		return nil, validationf("%s", msgPartInfoType)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	info := &model.VehiclePartInfo{Name: name, Type: category}
	if err := s.repos.Catalog.EnsurePartInfo(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}
