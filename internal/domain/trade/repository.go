package trade

import (
	"context"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/google/uuid"
)

// OrderRepository is the slice of order persistence the sync engine needs
type OrderRepository interface {
	// FindByIDWithDetails loads the order with items and custom params.
	// Returns shared.ErrNotFound when absent.
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindBySyncStatuses lists orders in any of the given sync states, newest first
	FindBySyncStatuses(ctx context.Context, statuses []integration.OrderSyncStatus) ([]Order, error)

	// UpdateSyncState persists only the ERP sync fields of the order
	UpdateSyncState(ctx context.Context, order *Order) error
}
