package trade

import (
	"testing"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{Price: decimal.RequireFromString("12.345"), Quantity: decimal.NewFromInt(3)}
	assert.Equal(t, "37.035", item.Subtotal().String())
}

func TestOrderItem_EffectiveItemNumber(t *testing.T) {
	assert.Equal(t, 2, (&OrderItem{}).EffectiveItemNumber(2))
	assert.Equal(t, 7, (&OrderItem{ItemNumber: 7}).EffectiveItemNumber(2))
}

func TestOrderItem_Mark(t *testing.T) {
	item := OrderItem{AdditionalAttributes: `{"nameZh":"红色","nameEn":"Red"}`}
	assert.Equal(t, "红色", item.Mark().Display())
}

func TestOrder_FirstExpectedDeliveryDate(t *testing.T) {
	first := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	o := &Order{}
	assert.Nil(t, o.FirstExpectedDeliveryDate())

	o.Items = []OrderItem{{ExpectedDeliveryDate: &first}, {ExpectedDeliveryDate: &second}}
	assert.Equal(t, first, *o.FirstExpectedDeliveryDate())
}

func TestOrder_CustomParamsJSON(t *testing.T) {
	o := &Order{CustomParams: []CustomParam{
		{Key: "logo", Value: strPtr("yes")},
		{Key: "note", Value: nil},
	}}

	got, err := o.CustomParamsJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"logo":"yes","note":null}`, got)

	empty, err := (&Order{}).CustomParamsJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)
}

func TestOrder_SyncTransitions(t *testing.T) {
	now := time.Now()

	t.Run("unset to synced clears error", func(t *testing.T) {
		o := &Order{ErpSyncError: strPtr("old")}
		require.NoError(t, o.MarkErpSynced("SO2024031", now))
		assert.Equal(t, integration.OrderSyncStatusSynced, o.ErpSyncStatus)
		assert.Equal(t, "SO2024031", *o.ErpOrderNo)
		assert.Nil(t, o.ErpSyncError)
		assert.True(t, o.IsErpSynced())
	})

	t.Run("failed then retried", func(t *testing.T) {
		o := &Order{}
		require.NoError(t, o.MarkErpFailed("boom", now))
		assert.Equal(t, integration.OrderSyncStatusFailed, o.ErpSyncStatus)
		assert.Equal(t, "boom", *o.ErpSyncError)

		require.NoError(t, o.MarkErpSynced("SO2024032", now))
		assert.Equal(t, integration.OrderSyncStatusSynced, o.ErpSyncStatus)
	})

	t.Run("synced is terminal", func(t *testing.T) {
		o := &Order{ErpSyncStatus: integration.OrderSyncStatusSynced}
		err := o.MarkErpFailed("late", now)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.ErrorIs(t, o.MarkErpSynced("SO1", now), shared.ErrInvalidState)
		assert.ErrorIs(t, o.QueueErpSync(), shared.ErrInvalidState)
	})

	t.Run("queue", func(t *testing.T) {
		o := &Order{}
		require.NoError(t, o.QueueErpSync())
		assert.Equal(t, integration.OrderSyncStatusPending, o.ErpSyncStatus)
	})
}
