package trade

import (
	"encoding/json"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one line of a website order. Packaging fields map 1:1 onto
// the ERP line extension columns.
type OrderItem struct {
	ID                   uuid.UUID
	OrderID              uuid.UUID
	ProductSkuID         *uuid.UUID
	ProductCode          string
	ProductName          string
	ItemNumber           int
	Quantity             decimal.Decimal
	Price                decimal.Decimal
	AdditionalAttributes string
	ProductSpec          string
	PackagingUnit        string
	PackagingConversion  decimal.Decimal
	NetWeight            decimal.Decimal
	GrossWeight          decimal.Decimal
	WeightUnit           string
	Volume               decimal.Decimal
	ExpectedDeliveryDate *time.Time
	SupplierNote         string
	PackagingType        string
	PackingQuantity      *int
	CartonQuantity       *int
	PackagingMethod      string
	PaperCardCode        string
	WashLabelCode        string
	OuterCartonCode      string
	CartonSpecification  string
}

// Subtotal returns price x quantity
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

// EffectiveItemNumber returns the explicit item number, or the 1-based
// position when none was supplied.
func (i *OrderItem) EffectiveItemNumber(position int) int {
	if i.ItemNumber > 0 {
		return i.ItemNumber
	}
	return position
}

// Mark parses the additional-attributes field
func (i *OrderItem) Mark() integration.AttributeMark {
	return integration.ParseAttributeMark(i.AdditionalAttributes)
}

// CustomParam is a free-form key/value attached to an order
type CustomParam struct {
	Key   string
	Value *string
}

// Order is the website order as seen by the sync engine. The engine only
// changes the Erp* fields; everything else belongs to the CRUD layer.
type Order struct {
	shared.BaseEntity
	OrderNumber   string
	OrderDate     time.Time
	TotalAmount   decimal.Decimal
	Status        string
	CustomerID    uuid.UUID
	SalespersonID uuid.UUID
	Items         []OrderItem
	CustomParams  []CustomParam

	ErpOrderNo    *string
	ErpSyncStatus integration.OrderSyncStatus
	ErpSyncAt     *time.Time
	ErpSyncError  *string
}

// FirstExpectedDeliveryDate returns the expected delivery date of the first
// item, which the ERP header carries for the whole order.
func (o *Order) FirstExpectedDeliveryDate() *time.Time {
	if len(o.Items) == 0 {
		return nil
	}
	return o.Items[0].ExpectedDeliveryDate
}

// CustomParamsJSON folds custom params into one JSON object. Later keys win.
func (o *Order) CustomParamsJSON() (string, error) {
	params := make(map[string]*string, len(o.CustomParams))
	for _, p := range o.CustomParams {
		params[p.Key] = p.Value
	}
	b, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MarkErpSynced records a successful export
func (o *Order) MarkErpSynced(erpOrderNo string, at time.Time) error {
	if !o.ErpSyncStatus.CanTransitionTo(integration.OrderSyncStatusSynced) {
		return shared.NewDomainError("INVALID_STATE", "Order is already synced to ERP")
	}
	o.ErpOrderNo = &erpOrderNo
	o.ErpSyncStatus = integration.OrderSyncStatusSynced
	o.ErpSyncAt = &at
	o.ErpSyncError = nil
	o.UpdatedAt = at
	return nil
}

// MarkErpFailed records a failed export attempt with its error text
func (o *Order) MarkErpFailed(reason string, at time.Time) error {
	if !o.ErpSyncStatus.CanTransitionTo(integration.OrderSyncStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", "Order is already synced to ERP")
	}
	o.ErpSyncStatus = integration.OrderSyncStatusFailed
	o.ErpSyncAt = &at
	o.ErpSyncError = &reason
	o.UpdatedAt = at
	return nil
}

// QueueErpSync marks the order as waiting for export
func (o *Order) QueueErpSync() error {
	if !o.ErpSyncStatus.CanTransitionTo(integration.OrderSyncStatusPending) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be queued for ERP sync")
	}
	o.ErpSyncStatus = integration.OrderSyncStatusPending
	o.Touch()
	return nil
}

// IsErpSynced reports whether the order already exists in the ERP
func (o *Order) IsErpSynced() bool {
	return o.ErpSyncStatus == integration.OrderSyncStatusSynced
}
