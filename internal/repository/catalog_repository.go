package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vehicle-repair-service/internal/model"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]model.VehicleBrand, error) {
	var brands []model.VehicleBrand
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *CatalogRepository) ModelsByBrand(ctx context.Context, brandID uuid.UUID) ([]model.VehicleModel, error) {
	var models []model.VehicleModel
	if err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *CatalogRepository) GetBrand(ctx context.Context, id uuid.UUID) (*model.VehicleBrand, error) {
	var brand model.VehicleBrand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *CatalogRepository) GetModel(ctx context.Context, id uuid.UUID) (*model.VehicleModel, error) {
	var vehicleModel model.VehicleModel
	if err := r.db.WithContext(ctx).First(&vehicleModel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicleModel, nil
}

func (r *CatalogRepository) ListFuelTypes(ctx context.Context) ([]model.FuelType, error) {
	var fuels []model.FuelType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&fuels).Error; err != nil {
		return nil, err
	}
	return fuels, nil
}

type ProductFilter struct {
	Kinds  []model.ProductKind
	IDs    []uuid.UUID
	Limit  int
	Offset int
}

func (r *CatalogRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})
	if len(filter.Kinds) > 0 {
		query = query.Where("kind IN ?", filter.Kinds)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	query = applyPaging(query, filter.Limit, filter.Offset)

	var products []model.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FirstProductOfKind returns the first product of kind by code, used to find
// the inspection charge product.
func (r *CatalogRepository) FirstProductOfKind(ctx context.Context, kind model.ProductKind) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("code ASC").
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *CatalogRepository) PartInfosByIDs(ctx context.Context, ids []uuid.UUID) ([]model.VehiclePartInfo, error) {
	var infos []model.VehiclePartInfo
	if len(ids) == 0 {
		return infos, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&infos).Error; err != nil {
		return nil, err
	}
	return infos, nil
}

// The Upsert* helpers back the seed loader and key rows by their natural
// identifier.

func (r *CatalogRepository) UpsertBrand(ctx context.Context, brand *model.VehicleBrand) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(brand).Error
}

func (r *CatalogRepository) FindBrandByName(ctx context.Context, name string) (*model.VehicleBrand, error) {
	var brand model.VehicleBrand
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *CatalogRepository) EnsureModel(ctx context.Context, brandID uuid.UUID, name string) (*model.VehicleModel, error) {
	vehicleModel := model.VehicleModel{BrandID: brandID, Name: name}
	if err := r.db.WithContext(ctx).
		Where("brand_id = ? AND name = ?", brandID, name).
		FirstOrCreate(&vehicleModel).Error; err != nil {
		return nil, err
	}
	return &vehicleModel, nil
}

func (r *CatalogRepository) UpsertFuelType(ctx context.Context, fuel *model.FuelType) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(fuel).Error
}

func (r *CatalogRepository) UpsertProduct(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "kind", "list_price", "updated_at"}),
	}).Create(product).Error
}

func (r *CatalogRepository) EnsurePartInfo(ctx context.Context, info *model.VehiclePartInfo) error {
	return r.db.WithContext(ctx).
		Where("name = ? AND type = ?", info.Name, info.Type).
		FirstOrCreate(info).Error
}

func (r *CatalogRepository) ListPartInfos(ctx context.Context, category model.PartCategory) ([]model.VehiclePartInfo, error) {
	query := r.db.WithContext(ctx).Model(&model.VehiclePartInfo{})
	if category != "" {
		query = query.Where("type = ?", category)
	}
	var infos []model.VehiclePartInfo
	if err := query.Order("name ASC").Limit(defaultListLimit).Find(&infos).Error; err != nil {
		return nil, err
	}
	return infos, nil
}
