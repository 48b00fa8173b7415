package integration

import (
	"context"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindBySyncStatuses(ctx context.Context, statuses []integration.OrderSyncStatus) ([]trade.Order, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateSyncState(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockEntityProvisioner is a mock implementation of OrderEntityProvisioner
type MockEntityProvisioner struct {
	mock.Mock
}

func (m *MockEntityProvisioner) EnsureOrderEntitiesSynced(ctx context.Context, order *trade.Order) (*OrderEntities, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OrderEntities), args.Error(1)
}

// MockRemoteOrderStore is a mock implementation of integration.RemoteOrderStore
type MockRemoteOrderStore struct {
	mock.Mock
}

func (m *MockRemoteOrderStore) Begin(ctx context.Context) (integration.RemoteOrderTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.RemoteOrderTx), args.Error(1)
}

// MockRemoteOrderTx is a mock implementation of integration.RemoteOrderTx
type MockRemoteOrderTx struct {
	mock.Mock
}

func (m *MockRemoteOrderTx) MaxOrderSuffix(ctx context.Context, format integration.OrderNumberFormat, monthPrefix string) (*int64, error) {
	args := m.Called(ctx, format, monthPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockRemoteOrderTx) InsertHeader(ctx context.Context, header integration.RemoteOrderHeader) error {
	args := m.Called(ctx, header)
	return args.Error(0)
}

func (m *MockRemoteOrderTx) InsertLine(ctx context.Context, line integration.RemoteOrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockRemoteOrderTx) InsertLineExtension(ctx context.Context, ext integration.RemoteOrderLineExt) error {
	args := m.Called(ctx, ext)
	return args.Error(0)
}

func (m *MockRemoteOrderTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRemoteOrderTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockEntityMappingRepository is a mock implementation of integration.EntityMappingRepository
type MockEntityMappingRepository struct {
	mock.Mock
}

func (m *MockEntityMappingRepository) FindByID(ctx context.Context, kind integration.EntityKind, id uuid.UUID) (*integration.EntityMapping, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.EntityMapping), args.Error(1)
}

func (m *MockEntityMappingRepository) FindByLocalID(ctx context.Context, kind integration.EntityKind, localID uuid.UUID) (*integration.EntityMapping, error) {
	args := m.Called(ctx, kind, localID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.EntityMapping), args.Error(1)
}

func (m *MockEntityMappingRepository) FindByRemoteCode(ctx context.Context, kind integration.EntityKind, remoteCode string) (*integration.EntityMapping, error) {
	args := m.Called(ctx, kind, remoteCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.EntityMapping), args.Error(1)
}

func (m *MockEntityMappingRepository) List(ctx context.Context, kind integration.EntityKind) ([]integration.EntityMapping, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.EntityMapping), args.Error(1)
}

func (m *MockEntityMappingRepository) ListByCodePrefix(ctx context.Context, kind integration.EntityKind, prefix string) ([]integration.EntityMapping, error) {
	args := m.Called(ctx, kind, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.EntityMapping), args.Error(1)
}

func (m *MockEntityMappingRepository) CountByCodePrefix(ctx context.Context, kind integration.EntityKind, prefix string) (int64, error) {
	args := m.Called(ctx, kind, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntityMappingRepository) Create(ctx context.Context, mapping *integration.EntityMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockEntityMappingRepository) Update(ctx context.Context, mapping *integration.EntityMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockEntityMappingRepository) Delete(ctx context.Context, kind integration.EntityKind, id uuid.UUID) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func (m *MockEntityMappingRepository) DeleteByCodePrefix(ctx context.Context, kind integration.EntityKind, prefix string) (int64, error) {
	args := m.Called(ctx, kind, prefix)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ trade.OrderRepository               = (*MockOrderRepository)(nil)
	_ OrderEntityProvisioner              = (*MockEntityProvisioner)(nil)
	_ integration.RemoteOrderStore        = (*MockRemoteOrderStore)(nil)
	_ integration.RemoteOrderTx           = (*MockRemoteOrderTx)(nil)
	_ integration.EntityMappingRepository = (*MockEntityMappingRepository)(nil)
)
