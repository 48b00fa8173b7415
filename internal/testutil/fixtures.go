package testutil

import (
	"time"

	"github.com/erp/syncengine/internal/domain/partner"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderBuilder assembles website orders for tests.
type OrderBuilder struct {
	order trade.Order
}

// NewOrderBuilder starts an order dated 2024-03-15 with no items
func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{order: trade.Order{
		BaseEntity:  shared.NewBaseEntity(),
		OrderNumber: "WEB-" + uuid.NewString()[:8],
		OrderDate:   time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Status:      "confirmed",
	}}
}

// WithParties sets the customer and salesperson
func (b *OrderBuilder) WithParties(customerID, salespersonID uuid.UUID) *OrderBuilder {
	b.order.CustomerID = customerID
	b.order.SalespersonID = salespersonID
	return b
}

// WithItem appends a line for productCode
func (b *OrderBuilder) WithItem(productCode, quantity, price string) *OrderBuilder {
	b.order.Items = append(b.order.Items, trade.OrderItem{
		ID:          uuid.New(),
		OrderID:     b.order.ID,
		ProductCode: productCode,
		ProductName: productCode + " name",
		Quantity:    decimal.RequireFromString(quantity),
		Price:       decimal.RequireFromString(price),
	})
	return b
}

// WithCustomParam attaches a custom param
func (b *OrderBuilder) WithCustomParam(key, value string) *OrderBuilder {
	b.order.CustomParams = append(b.order.CustomParams, trade.CustomParam{Key: key, Value: &value})
	return b
}

// Build returns the order with its total computed from the items
func (b *OrderBuilder) Build() *trade.Order {
	o := b.order
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	o.TotalAmount = total
	return &o
}

// NewCustomer returns a website customer with a Chinese name
func NewCustomer(name string) *partner.Customer {
	return &partner.Customer{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		Phone:         "021-5555",
		Email:         "buyer@example.com",
		Country:       "中国",
		ContactPerson: "王经理",
	}
}

// NewSalesperson returns a website salesperson
func NewSalesperson(accountID, name string) *partner.Salesperson {
	return &partner.Salesperson{
		BaseEntity:   shared.NewBaseEntity(),
		AccountID:    accountID,
		ChineseName:  name,
		PasswordHash: "hash",
	}
}
