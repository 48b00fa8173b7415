package persistence

import (
	"context"
	"errors"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/domain/trade"
	"github.com/erp/syncengine/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByIDWithDetails loads an order with its items in position order and
// its custom params
func (r *GormOrderRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Preload("CustomParams").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySyncStatuses returns order headers in any of the statuses, newest
// first. Items are not loaded.
func (r *GormOrderRepository) FindBySyncStatuses(ctx context.Context, statuses []integration.OrderSyncStatus) ([]trade.Order, error) {
	if len(statuses) == 0 {
		return []trade.Order{}, nil
	}
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("erp_sync_status IN ?", statuses).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// UpdateSyncState writes only the ERP sync columns of the order
func (r *GormOrderRepository) UpdateSyncState(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"erp_order_no":    order.ErpOrderNo,
			"erp_sync_status": order.ErpSyncStatus,
			"erp_sync_at":     order.ErpSyncAt,
			"erp_sync_error":  order.ErpSyncError,
			"updated_at":      order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Create inserts an order with its items and custom params
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Create(models.OrderGraphFromDomain(order)).Error
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
