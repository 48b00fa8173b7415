package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the category persistence the importer needs
type CategoryRepository interface {
	// FindByCode returns shared.ErrNotFound when absent
	FindByCode(ctx context.Context, code string) (*Category, error)

	// Create inserts a new category
	Create(ctx context.Context, category *Category) error
}

// ProductGroupRepository defines persistence for product groups
type ProductGroupRepository interface {
	// FindByPrefix returns shared.ErrNotFound when absent
	FindByPrefix(ctx context.Context, prefix string) (*ProductGroup, error)

	// FindAll returns every product group
	FindAll(ctx context.Context) ([]ProductGroup, error)

	// Save creates or updates a group
	Save(ctx context.Context, group *ProductGroup) error
}

// ProductSkuRepository defines persistence for SKUs
type ProductSkuRepository interface {
	// FindByCode returns shared.ErrNotFound when absent
	FindByCode(ctx context.Context, productCode string) (*ProductSku, error)

	// FindByGroupIDs returns SKUs belonging to any of the groups
	FindByGroupIDs(ctx context.Context, groupIDs []uuid.UUID) ([]ProductSku, error)

	// Save creates or updates a SKU
	Save(ctx context.Context, sku *ProductSku) error
}
