package persistence

import (
	"context"
	"errors"

	"github.com/erp/syncengine/internal/domain/catalog"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByCode finds a category by code
func (r *GormCategoryRepository) FindByCode(ctx context.Context, code string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a category; a duplicate code returns shared.ErrAlreadyExists
func (r *GormCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	if err := r.db.WithContext(ctx).Create(models.CategoryModelFromDomain(category)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GormProductGroupRepository implements catalog.ProductGroupRepository
type GormProductGroupRepository struct {
	db *gorm.DB
}

// NewGormProductGroupRepository creates a new GormProductGroupRepository
func NewGormProductGroupRepository(db *gorm.DB) *GormProductGroupRepository {
	return &GormProductGroupRepository{db: db}
}

// FindByPrefix finds a group by prefix
func (r *GormProductGroupRepository) FindByPrefix(ctx context.Context, prefix string) (*catalog.ProductGroup, error) {
	var model models.ProductGroupModel
	if err := r.db.WithContext(ctx).First(&model, "prefix = ?", prefix).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every group ordered by prefix
func (r *GormProductGroupRepository) FindAll(ctx context.Context) ([]catalog.ProductGroup, error) {
	var rows []models.ProductGroupModel
	if err := r.db.WithContext(ctx).Order("prefix ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.ProductGroup, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a group
func (r *GormProductGroupRepository) Save(ctx context.Context, group *catalog.ProductGroup) error {
	model, err := models.ProductGroupModelFromDomain(group)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// GormProductSkuRepository implements catalog.ProductSkuRepository
type GormProductSkuRepository struct {
	db *gorm.DB
}

// NewGormProductSkuRepository creates a new GormProductSkuRepository
func NewGormProductSkuRepository(db *gorm.DB) *GormProductSkuRepository {
	return &GormProductSkuRepository{db: db}
}

// FindByCode finds a SKU by product code
func (r *GormProductSkuRepository) FindByCode(ctx context.Context, productCode string) (*catalog.ProductSku, error) {
	var model models.ProductSkuModel
	if err := r.db.WithContext(ctx).First(&model, "product_code = ?", productCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGroupIDs returns SKUs of the given groups ordered by product code
func (r *GormProductSkuRepository) FindByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) ([]catalog.ProductSku, error) {
	if len(groupIDs) == 0 {
		return []catalog.ProductSku{}, nil
	}
	var rows []models.ProductSkuModel
	if err := r.db.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Order("product_code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.ProductSku, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a SKU
func (r *GormProductSkuRepository) Save(ctx context.Context, sku *catalog.ProductSku) error {
	model, err := models.ProductSkuModelFromDomain(sku)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

var (
	_ catalog.CategoryRepository     = (*GormCategoryRepository)(nil)
	_ catalog.ProductGroupRepository = (*GormProductGroupRepository)(nil)
	_ catalog.ProductSkuRepository   = (*GormProductSkuRepository)(nil)
)
