package integration

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/partner"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/domain/trade"
	"github.com/erp/syncengine/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// seedParties stores one customer and one salesperson, both unmapped
func (s *stack) seedParties(t *testing.T) (*partner.Customer, *partner.Salesperson) {
	t.Helper()
	sp := testutil.NewSalesperson("MP001", "张三")
	require.NoError(t, s.salespersons.Save(bg, sp))
	c := testutil.NewCustomer("上海贸易有限公司")
	require.NoError(t, s.customers.Save(bg, c))
	return c, sp
}

func (s *stack) seedOrder(t *testing.T, b *testutil.OrderBuilder) *trade.Order {
	t.Helper()
	o := b.Build()
	require.NoError(t, s.orders.Create(bg, o))
	return o
}

func TestOrderSync_EndToEnd(t *testing.T) {
	s := newStack(t, testSettings())
	c, sp := s.seedParties(t)
	order := s.seedOrder(t, testutil.NewOrderBuilder().
		WithParties(c.ID, sp.ID).
		WithItem("P001", "10", "5.5").
		WithItem("P002", "3", "12.345").
		WithCustomParam("logo", "yes"))

	res, err := s.orderSync.SyncOrder(bg, order.ID)
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "SO2024031", res.ErpOrderNo)
	assert.True(t, res.AutoSyncedCustomer)
	assert.True(t, res.AutoSyncedSalesperson)

	spMapping, err := s.mappings.FindByLocalID(bg, integration.EntityKindSalesperson, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, "TEST_S0001", spMapping.RemoteCode)
	cMapping, err := s.mappings.FindByLocalID(bg, integration.EntityKindCustomer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "TEST_C0001", cMapping.RemoteCode)

	assert.Equal(t, int64(1), s.erp.Count(t, "MF_POS"))
	assert.Equal(t, int64(2), s.erp.Count(t, "TF_POS"))
	assert.Equal(t, int64(2), s.erp.Count(t, "TF_POS_Z"))

	var cust struct {
		Sal string `gorm:"column:SAL"`
	}
	require.NoError(t, s.erp.DB.Raw("SELECT SAL FROM CUST WHERE CUS_NO = ?", "TEST_C0001").Scan(&cust).Error)
	assert.Equal(t, "TEST_S0001", cust.Sal)

	var header struct {
		CusNo string          `gorm:"column:CUS_NO"`
		SalNo string          `gorm:"column:SAL_NO"`
		Total decimal.Decimal `gorm:"column:AMTN_INT"`
		Rem   string          `gorm:"column:REM"`
	}
	require.NoError(t, s.erp.DB.Raw("SELECT CUS_NO, SAL_NO, AMTN_INT, REM FROM MF_POS WHERE OS_NO = ?", res.ErpOrderNo).Scan(&header).Error)
	assert.Equal(t, "TEST_C0001", header.CusNo)
	assert.Equal(t, "TEST_S0001", header.SalNo)
	assert.True(t, header.Total.Equal(decimal.RequireFromString("92.035")), header.Total.String())
	assert.Equal(t, `{"logo":"yes"}`, header.Rem)

	var line struct {
		Untaxed decimal.Decimal `gorm:"column:AMTN"`
	}
	require.NoError(t, s.erp.DB.Raw("SELECT AMTN FROM TF_POS WHERE OS_NO = ? AND ITM = 2", res.ErpOrderNo).Scan(&line).Error)
	assert.True(t, line.Untaxed.Equal(decimal.RequireFromString("37.035")), line.Untaxed.String())

	stored, err := s.orders.FindByIDWithDetails(bg, order.ID)
	require.NoError(t, err)
	assert.Equal(t, integration.OrderSyncStatusSynced, stored.ErpSyncStatus)
	require.NotNil(t, stored.ErpOrderNo)
	assert.Equal(t, "SO2024031", *stored.ErpOrderNo)
	assert.Nil(t, stored.ErpSyncError)

	t.Run("synced order is not exported twice", func(t *testing.T) {
		res, err := s.orderSync.SyncOrder(bg, order.ID)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Order is already synced to ERP", res.Error)
		assert.Equal(t, int64(1), s.erp.Count(t, "MF_POS"))

		again, err := s.orders.FindByIDWithDetails(bg, order.ID)
		require.NoError(t, err)
		assert.Equal(t, integration.OrderSyncStatusSynced, again.ErpSyncStatus)
		assert.Nil(t, again.ErpSyncError)
	})

	t.Run("second order reuses mappings", func(t *testing.T) {
		next := s.seedOrder(t, testutil.NewOrderBuilder().WithParties(c.ID, sp.ID).WithItem("P003", "1", "1"))
		res, err := s.orderSync.SyncOrder(bg, next.ID)
		require.NoError(t, err)
		require.True(t, res.Success, res.Error)
		assert.Equal(t, "SO2024032", res.ErpOrderNo)
		assert.False(t, res.AutoSyncedCustomer)
		assert.False(t, res.AutoSyncedSalesperson)
		assert.Equal(t, int64(1), s.erp.Count(t, "CUST"))
		assert.Equal(t, int64(1), s.erp.Count(t, "SALM"))
	})
}

func TestOrderSync_FailedLineRollsBackEverything(t *testing.T) {
	s := newStack(t, testSettings())
	c, sp := s.seedParties(t)
	s.erp.RejectLinesFor(t, "BROKEN")
	order := s.seedOrder(t, testutil.NewOrderBuilder().
		WithParties(c.ID, sp.ID).
		WithItem("P001", "1", "10").
		WithItem("BROKEN", "1", "10").
		WithItem("P003", "1", "10"))

	res, err := s.orderSync.SyncOrder(bg, order.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "line rejected")

	assert.Equal(t, int64(0), s.erp.Count(t, "MF_POS"))
	assert.Equal(t, int64(0), s.erp.Count(t, "TF_POS"))
	assert.Equal(t, int64(0), s.erp.Count(t, "TF_POS_Z"))

	stored, err := s.orders.FindByIDWithDetails(bg, order.ID)
	require.NoError(t, err)
	assert.Equal(t, integration.OrderSyncStatusFailed, stored.ErpSyncStatus)
	require.NotNil(t, stored.ErpSyncError)
	assert.Contains(t, *stored.ErpSyncError, "line rejected")
	assert.Nil(t, stored.ErpOrderNo)

	// parties are provisioned outside the order transaction and stay mapped
	assert.Equal(t, int64(1), s.erp.Count(t, "CUST"))
	assert.Equal(t, int64(1), s.erp.Count(t, "SALM"))

	t.Run("retry re-runs and fails again", func(t *testing.T) {
		res, err := s.orderSync.RetryOrder(bg, order.ID)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.False(t, res.AutoSyncedCustomer)
		assert.Equal(t, int64(0), s.erp.Count(t, "MF_POS"))
	})

	t.Run("listed as failed", func(t *testing.T) {
		failed, err := s.orderSync.ListFailedOrders(bg)
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, order.ID, failed[0].ID)
		assert.NotEmpty(t, failed[0].ErpSyncError)
	})
}

func TestOrderSync_SyncOrders(t *testing.T) {
	s := newStack(t, testSettings())
	c, sp := s.seedParties(t)
	first := s.seedOrder(t, testutil.NewOrderBuilder().WithParties(c.ID, sp.ID).WithItem("P001", "2", "3"))
	second := s.seedOrder(t, testutil.NewOrderBuilder().WithParties(c.ID, sp.ID).WithItem("P002", "1", "1"))
	missing := uuid.New()

	pending, err := s.orderSync.ListPendingOrders(bg)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	batch, err := s.orderSync.SyncOrders(bg, []uuid.UUID{first.ID, missing, second.ID})
	require.NoError(t, err)
	require.Len(t, batch.Results, 3)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)

	assert.True(t, batch.Results[0].Success)
	assert.Equal(t, "SO2024031", batch.Results[0].ErpOrderNo)
	assert.False(t, batch.Results[1].Success)
	assert.Equal(t, missing, batch.Results[1].OrderID)
	assert.Contains(t, batch.Results[1].Error, "order not found")
	assert.True(t, batch.Results[2].Success)
	assert.Equal(t, "SO2024032", batch.Results[2].ErpOrderNo)

	pending, err = s.orderSync.ListPendingOrders(bg)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOrderSync_Disabled(t *testing.T) {
	settings := testSettings()
	settings.Enabled = false
	s := newStack(t, settings)
	c, sp := s.seedParties(t)
	order := s.seedOrder(t, testutil.NewOrderBuilder().WithParties(c.ID, sp.ID).WithItem("P001", "1", "1"))

	res, err := s.orderSync.SyncOrder(bg, order.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "ERP sync is disabled", res.Error)

	batch, err := s.orderSync.SyncOrders(bg, []uuid.UUID{order.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Failed)

	stored, err := s.orders.FindByIDWithDetails(bg, order.ID)
	require.NoError(t, err)
	assert.Equal(t, integration.OrderSyncStatusUnset, stored.ErpSyncStatus)
	assert.Equal(t, int64(0), s.erp.Count(t, "CUST"))
}

func TestOrderSync_LockHeld(t *testing.T) {
	s := newStack(t, testSettings())
	c, sp := s.seedParties(t)
	order := s.seedOrder(t, testutil.NewOrderBuilder().WithParties(c.ID, sp.ID).WithItem("P001", "1", "1"))

	release, err := s.lock.Acquire(bg, integration.LockOrderSync, time.Minute)
	require.NoError(t, err)
	defer release()

	res, err := s.orderSync.SyncOrder(bg, order.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, msgSyncInProgress, res.Error)
	assert.Equal(t, int64(0), s.erp.Count(t, "MF_POS"))
}

// ---------------------------------------------------------------------------
// Mock based tests
// ---------------------------------------------------------------------------

func newMockedOrderSync() (*OrderSyncService, *MockOrderRepository, *MockEntityProvisioner, *MockRemoteOrderStore) {
	orders := new(MockOrderRepository)
	entities := new(MockEntityProvisioner)
	remote := new(MockRemoteOrderStore)
	svc := NewOrderSyncService(orders, entities, remote, testSettings(),
		WithClock(func() time.Time { return fixedNow }))
	return svc, orders, entities, remote
}

func TestOrderSync_MissingOrder(t *testing.T) {
	svc, orders, _, remote := newMockedOrderSync()
	id := uuid.New()
	orders.On("FindByIDWithDetails", mock.Anything, id).Return(nil, shared.ErrNotFound)

	res, err := svc.SyncOrder(bg, id)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, id, res.OrderID)
	assert.Contains(t, res.Error, integration.ErrOrderNotFound.Error())
	assert.Contains(t, res.Error, id.String())
	remote.AssertNotCalled(t, "Begin", mock.Anything)
	orders.AssertNotCalled(t, "UpdateSyncState", mock.Anything, mock.Anything)
}

func TestOrderSync_LocalStorageErrorIsReturned(t *testing.T) {
	svc, orders, _, remote := newMockedOrderSync()
	id := uuid.New()
	dbErr := errors.New("connection reset")
	orders.On("FindByIDWithDetails", mock.Anything, id).Return(nil, dbErr)

	res, err := svc.SyncOrder(bg, id)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, dbErr)
	remote.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestOrderSync_EntityFailureSkipsTransaction(t *testing.T) {
	svc, orders, entities, remote := newMockedOrderSync()
	order := testutil.NewOrderBuilder().WithParties(uuid.New(), uuid.New()).WithItem("P001", "1", "1").Build()

	orders.On("FindByIDWithDetails", mock.Anything, order.ID).Return(order, nil)
	entities.On("EnsureOrderEntitiesSynced", mock.Anything, order).
		Return(nil, integration.ErrLocalEntityMissing)
	orders.On("UpdateSyncState", mock.Anything, mock.MatchedBy(func(o *trade.Order) bool {
		return o.ErpSyncStatus == integration.OrderSyncStatusFailed && o.ErpSyncError != nil
	})).Return(nil)

	res, err := svc.SyncOrder(bg, order.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "local entity not found")
	remote.AssertNotCalled(t, "Begin", mock.Anything)
	orders.AssertExpectations(t)
}

func TestOrderSync_OrderWithoutItems(t *testing.T) {
	svc, orders, entities, _ := newMockedOrderSync()
	order := testutil.NewOrderBuilder().WithParties(uuid.New(), uuid.New()).Build()

	orders.On("FindByIDWithDetails", mock.Anything, order.ID).Return(order, nil)
	orders.On("UpdateSyncState", mock.Anything, order).Return(nil)

	res, err := svc.SyncOrder(bg, order.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, integration.ErrOrderHasNoItems.Error(), res.Error)
	entities.AssertNotCalled(t, "EnsureOrderEntitiesSynced", mock.Anything, mock.Anything)
}

func TestOrderSync_WritesExactAmounts(t *testing.T) {
	svc, orders, entities, remote := newMockedOrderSync()
	tx := new(MockRemoteOrderTx)
	delivery := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	order := testutil.NewOrderBuilder().WithParties(uuid.New(), uuid.New()).WithItem("P001", "3", "12.345").Build()
	order.Items[0].ExpectedDeliveryDate = &delivery
	order.Items[0].AdditionalAttributes = `{"nameZh":"红色","nameEn":"Red"}`
	order.Items[0].ItemNumber = 7

	orders.On("FindByIDWithDetails", mock.Anything, order.ID).Return(order, nil)
	entities.On("EnsureOrderEntitiesSynced", mock.Anything, order).
		Return(&OrderEntities{SalespersonCode: "TEST_S0003", CustomerCode: "TEST_C0009"}, nil)
	remote.On("Begin", mock.Anything).Return(tx, nil)

	highest := int64(41)
	tx.On("MaxOrderSuffix", mock.Anything, integration.OrderNumberFormat{Literal: "SO"}, "SO202403").Return(&highest, nil)
	tx.On("InsertHeader", mock.Anything, mock.MatchedBy(func(h integration.RemoteOrderHeader) bool {
		return h.OrderNo == "SO20240342" &&
			h.CustomerCode == "TEST_C0009" &&
			h.SalespersonCode == "TEST_S0003" &&
			h.ExpectedDelivery != nil && h.ExpectedDelivery.Equal(delivery) &&
			h.Remarks == "{}"
	})).Return(nil)
	tx.On("InsertLine", mock.Anything, mock.MatchedBy(func(l integration.RemoteOrderLine) bool {
		return l.ItemNo == 7 &&
			l.Mark == "红色" &&
			l.UntaxedAmount.Equal(decimal.RequireFromString("37.035")) &&
			l.Tax.Equal(decimal.RequireFromString("4.81455")) &&
			l.Amount.Equal(decimal.RequireFromString("41.84955")) &&
			l.TaxRatePercent.Equal(decimal.NewFromInt(13))
	})).Return(nil)
	tx.On("InsertLineExtension", mock.Anything, mock.MatchedBy(func(e integration.RemoteOrderLineExt) bool {
		return e.OrderNo == "SO20240342" && e.ItemNo == 7
	})).Return(nil)
	tx.On("Commit").Return(nil)
	orders.On("UpdateSyncState", mock.Anything, order).Return(nil)

	res, err := svc.SyncOrder(bg, order.ID)
	require.NoError(t, err)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "SO20240342", res.ErpOrderNo)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Rollback")
}

func TestOrderSync_RollbackFailureIsSwallowed(t *testing.T) {
	svc, orders, entities, remote := newMockedOrderSync()
	tx := new(MockRemoteOrderTx)
	order := testutil.NewOrderBuilder().WithParties(uuid.New(), uuid.New()).WithItem("P001", "1", "1").Build()

	orders.On("FindByIDWithDetails", mock.Anything, order.ID).Return(order, nil)
	entities.On("EnsureOrderEntitiesSynced", mock.Anything, order).
		Return(&OrderEntities{SalespersonCode: "S", CustomerCode: "C"}, nil)
	remote.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("MaxOrderSuffix", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	tx.On("InsertHeader", mock.Anything, mock.Anything).Return(errors.New("header rejected"))
	tx.On("Rollback").Return(errors.New("connection reset"))
	orders.On("UpdateSyncState", mock.Anything, order).Return(nil)

	res, err := svc.SyncOrder(bg, order.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "header rejected", res.Error)
	assert.Equal(t, integration.OrderSyncStatusFailed, order.ErpSyncStatus)
	tx.AssertCalled(t, "Rollback")
	tx.AssertNotCalled(t, "Commit")
}
