package models

import (
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	OrderNumber   string                      `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderDate     time.Time                   `gorm:"not null"`
	TotalAmount   decimal.Decimal             `gorm:"type:decimal(18,4);not null;default:0"`
	Status        string                      `gorm:"type:varchar(20);not null;default:'draft'"`
	CustomerID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	SalespersonID uuid.UUID                   `gorm:"type:uuid;not null;index"`
	ErpOrderNo    *string                     `gorm:"type:varchar(20);index"`
	ErpSyncStatus integration.OrderSyncStatus `gorm:"type:varchar(20);not null;default:'';index"`
	ErpSyncAt     *time.Time
	ErpSyncError  *string                 `gorm:"type:text"`
	Items         []OrderItemModel        `gorm:"foreignKey:OrderID;references:ID"`
	CustomParams  []OrderCustomParamModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model, its items and custom params to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		BaseEntity:    m.BaseModel.ToDomain(),
		OrderNumber:   m.OrderNumber,
		OrderDate:     m.OrderDate,
		TotalAmount:   m.TotalAmount,
		Status:        m.Status,
		CustomerID:    m.CustomerID,
		SalespersonID: m.SalespersonID,
		ErpOrderNo:    m.ErpOrderNo,
		ErpSyncStatus: m.ErpSyncStatus,
		ErpSyncAt:     m.ErpSyncAt,
		ErpSyncError:  m.ErpSyncError,
		Items:         make([]trade.OrderItem, len(m.Items)),
		CustomParams:  make([]trade.CustomParam, len(m.CustomParams)),
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	for i, p := range m.CustomParams {
		o.CustomParams[i] = trade.CustomParam{Key: p.ParamKey, Value: p.ParamValue}
	}
	return o
}

// FromDomain populates the header fields from a domain Order. Items and
// custom params are owned by the website and are not written back.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.OrderNumber = o.OrderNumber
	m.OrderDate = o.OrderDate
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.CustomerID = o.CustomerID
	m.SalespersonID = o.SalespersonID
	m.ErpOrderNo = o.ErpOrderNo
	m.ErpSyncStatus = o.ErpSyncStatus
	m.ErpSyncAt = o.ErpSyncAt
	m.ErpSyncError = o.ErpSyncError
}

// OrderModelFromDomain creates a header model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is a line of an order
type OrderItemModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position             int             `gorm:"not null;default:0"`
	ProductSkuID         *uuid.UUID      `gorm:"type:uuid"`
	ProductCode          string          `gorm:"type:varchar(50);not null"`
	ProductName          string          `gorm:"type:varchar(200);not null"`
	ItemNumber           int             `gorm:"not null;default:0"`
	Quantity             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price                decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AdditionalAttributes string          `gorm:"type:text"`
	ProductSpec          string          `gorm:"type:text"`
	PackagingUnit        string          `gorm:"type:varchar(50)"`
	PackagingConversion  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetWeight            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrossWeight          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WeightUnit           string          `gorm:"type:varchar(20)"`
	Volume               decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	ExpectedDeliveryDate *time.Time
	SupplierNote         string `gorm:"type:text"`
	PackagingType        string `gorm:"type:varchar(50)"`
	PackingQuantity      *int
	CartonQuantity       *int
	PackagingMethod      string `gorm:"type:varchar(255)"`
	PaperCardCode        string `gorm:"type:varchar(100)"`
	WashLabelCode        string `gorm:"type:varchar(100)"`
	OuterCartonCode      string `gorm:"type:varchar(100)"`
	CartonSpecification  string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the model to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:                   m.ID,
		OrderID:              m.OrderID,
		ProductSkuID:         m.ProductSkuID,
		ProductCode:          m.ProductCode,
		ProductName:          m.ProductName,
		ItemNumber:           m.ItemNumber,
		Quantity:             m.Quantity,
		Price:                m.Price,
		AdditionalAttributes: m.AdditionalAttributes,
		ProductSpec:          m.ProductSpec,
		PackagingUnit:        m.PackagingUnit,
		PackagingConversion:  m.PackagingConversion,
		NetWeight:            m.NetWeight,
		GrossWeight:          m.GrossWeight,
		WeightUnit:           m.WeightUnit,
		Volume:               m.Volume,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		SupplierNote:         m.SupplierNote,
		PackagingType:        m.PackagingType,
		PackingQuantity:      m.PackingQuantity,
		CartonQuantity:       m.CartonQuantity,
		PackagingMethod:      m.PackagingMethod,
		PaperCardCode:        m.PaperCardCode,
		WashLabelCode:        m.WashLabelCode,
		OuterCartonCode:      m.OuterCartonCode,
		CartonSpecification:  m.CartonSpecification,
	}
}

// OrderItemModelFromDomain creates an item row at the given 0-based position
func OrderItemModelFromDomain(i *trade.OrderItem, position int) *OrderItemModel {
	id := i.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &OrderItemModel{
		ID:                   id,
		OrderID:              i.OrderID,
		Position:             position,
		ProductSkuID:         i.ProductSkuID,
		ProductCode:          i.ProductCode,
		ProductName:          i.ProductName,
		ItemNumber:           i.ItemNumber,
		Quantity:             i.Quantity,
		Price:                i.Price,
		AdditionalAttributes: i.AdditionalAttributes,
		ProductSpec:          i.ProductSpec,
		PackagingUnit:        i.PackagingUnit,
		PackagingConversion:  i.PackagingConversion,
		NetWeight:            i.NetWeight,
		GrossWeight:          i.GrossWeight,
		WeightUnit:           i.WeightUnit,
		Volume:               i.Volume,
		ExpectedDeliveryDate: i.ExpectedDeliveryDate,
		SupplierNote:         i.SupplierNote,
		PackagingType:        i.PackagingType,
		PackingQuantity:      i.PackingQuantity,
		CartonQuantity:       i.CartonQuantity,
		PackagingMethod:      i.PackagingMethod,
		PaperCardCode:        i.PaperCardCode,
		WashLabelCode:        i.WashLabelCode,
		OuterCartonCode:      i.OuterCartonCode,
		CartonSpecification:  i.CartonSpecification,
	}
}

// OrderCustomParamModel is a free-form key/value attached to an order
type OrderCustomParamModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ParamKey   string    `gorm:"type:varchar(100);not null"`
	ParamValue *string   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrderCustomParamModel) TableName() string {
	return "order_custom_params"
}

// OrderGraphFromDomain builds the header, item and param rows of a new
// order. Used by seeding and tests; the sync engine only updates headers.
func OrderGraphFromDomain(o *trade.Order) *OrderModel {
	m := OrderModelFromDomain(o)
	if m.ID == uuid.Nil {
		m.BaseModel.FromDomainBaseEntity(shared.NewBaseEntity())
		o.BaseEntity = m.BaseModel.ToDomain()
	}
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		o.Items[i].OrderID = m.ID
		m.Items[i] = *OrderItemModelFromDomain(&o.Items[i], i)
	}
	m.CustomParams = make([]OrderCustomParamModel, len(o.CustomParams))
	for i, p := range o.CustomParams {
		m.CustomParams[i] = OrderCustomParamModel{ID: uuid.New(), OrderID: m.ID, ParamKey: p.Key, ParamValue: p.Value}
	}
	return m
}
