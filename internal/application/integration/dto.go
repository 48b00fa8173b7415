package integration

import (
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/trade"
	"github.com/google/uuid"
)

// Failure messages carried in results
const (
	msgSyncDisabled   = "ERP sync is disabled"
	msgSyncInProgress = "another sync of the same kind is in progress"
)

// ---------------------------------------------------------------------------
// Entity sync
// ---------------------------------------------------------------------------

// EnsureResult is the outcome of provisioning one entity
type EnsureResult struct {
	Kind           integration.EntityKind `json:"kind"`
	LocalID        uuid.UUID              `json:"local_id"`
	RemoteCode     string                 `json:"remote_code"`
	AlreadyExisted bool                   `json:"already_existed"`
}

// OrderEntities holds the remote codes of an order's parties
type OrderEntities struct {
	SalespersonCode       string `json:"salesperson_code"`
	CustomerCode          string `json:"customer_code"`
	AutoSyncedSalesperson bool   `json:"auto_synced_salesperson"`
	AutoSyncedCustomer    bool   `json:"auto_synced_customer"`
}

// TestEntityCounts reports remote rows and mappings under the test prefix
type TestEntityCounts struct {
	Prefix              string `json:"prefix"`
	RemoteCustomers     int64  `json:"remote_customers"`
	RemoteSalespersons  int64  `json:"remote_salespersons"`
	CustomerMappings    int64  `json:"customer_mappings"`
	SalespersonMappings int64  `json:"salesperson_mappings"`
}

// Total returns the sum of the four counts
func (c TestEntityCounts) Total() int64 {
	return c.RemoteCustomers + c.RemoteSalespersons + c.CustomerMappings + c.SalespersonMappings
}

// ---------------------------------------------------------------------------
// Order sync
// ---------------------------------------------------------------------------

// OrderSyncResult is the outcome of exporting one order. Business failures
// are reported here; only infrastructure failures come back as errors.
type OrderSyncResult struct {
	OrderID               uuid.UUID `json:"order_id"`
	Success               bool      `json:"success"`
	ErpOrderNo            string    `json:"erp_order_no,omitempty"`
	AutoSyncedCustomer    bool      `json:"auto_synced_customer"`
	AutoSyncedSalesperson bool      `json:"auto_synced_salesperson"`
	Error                 string    `json:"error,omitempty"`
}

func orderFailure(orderID uuid.UUID, msg string) *OrderSyncResult {
	return &OrderSyncResult{OrderID: orderID, Success: false, Error: msg}
}

// BatchSyncResult collects one result per requested order
type BatchSyncResult struct {
	Results   []OrderSyncResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

func (b *BatchSyncResult) add(r OrderSyncResult) {
	b.Results = append(b.Results, r)
	if r.Success {
		b.Succeeded++
	} else {
		b.Failed++
	}
}

// OrderSyncSummary is an order as listed by the failed/pending queries
type OrderSyncSummary struct {
	ID            uuid.UUID                   `json:"id"`
	OrderNumber   string                      `json:"order_number"`
	OrderDate     time.Time                   `json:"order_date"`
	Status        integration.OrderSyncStatus `json:"erp_sync_status"`
	ErpOrderNo    string                      `json:"erp_order_no,omitempty"`
	ErpSyncAt     *time.Time                  `json:"erp_sync_at,omitempty"`
	ErpSyncError  string                      `json:"erp_sync_error,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	CustomerID    uuid.UUID                   `json:"customer_id"`
	SalespersonID uuid.UUID                   `json:"salesperson_id"`
}

// ToOrderSyncSummaries converts orders to list entries
func ToOrderSyncSummaries(orders []trade.Order) []OrderSyncSummary {
	out := make([]OrderSyncSummary, len(orders))
	for i := range orders {
		o := &orders[i]
		out[i] = OrderSyncSummary{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			OrderDate:     o.OrderDate,
			Status:        o.ErpSyncStatus,
			ErpSyncAt:     o.ErpSyncAt,
			CreatedAt:     o.CreatedAt,
			CustomerID:    o.CustomerID,
			SalespersonID: o.SalespersonID,
		}
		if o.ErpOrderNo != nil {
			out[i].ErpOrderNo = *o.ErpOrderNo
		}
		if o.ErpSyncError != nil {
			out[i].ErpSyncError = *o.ErpSyncError
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Mappings
// ---------------------------------------------------------------------------

// MappingResponse is an entity mapping as shown to operators
type MappingResponse struct {
	ID         uuid.UUID              `json:"id"`
	Kind       integration.EntityKind `json:"kind"`
	LocalID    uuid.UUID              `json:"local_id"`
	RemoteCode string                 `json:"remote_code"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// ToMappingResponse converts a domain mapping
func ToMappingResponse(m *integration.EntityMapping) MappingResponse {
	return MappingResponse{
		ID:         m.ID,
		Kind:       m.Kind,
		LocalID:    m.LocalID,
		RemoteCode: m.RemoteCode,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ToMappingResponses converts a slice of domain mappings
func ToMappingResponses(mappings []integration.EntityMapping) []MappingResponse {
	out := make([]MappingResponse, len(mappings))
	for i := range mappings {
		out[i] = ToMappingResponse(&mappings[i])
	}
	return out
}

// ---------------------------------------------------------------------------
// Product sync
// ---------------------------------------------------------------------------

// ProductSyncResult is the outcome of one product import pass
type ProductSyncResult struct {
	Success           bool          `json:"success"`
	Incremental       bool          `json:"incremental"`
	Since             time.Time     `json:"since"`
	ProductsRead      int           `json:"products_read"`
	ProductsSkipped   int           `json:"products_skipped"`
	CategoriesCreated int           `json:"categories_created"`
	GroupsCreated     int           `json:"groups_created"`
	GroupsUpdated     int           `json:"groups_updated"`
	SkusCreated       int           `json:"skus_created"`
	SkusUpdated       int           `json:"skus_updated"`
	Duration          time.Duration `json:"duration"`
	Error             string        `json:"error,omitempty"`
}

// LastSyncTimes reports the persisted sync timestamps. Nil means never.
type LastSyncTimes struct {
	ProductBaseline     *time.Time `json:"product_baseline,omitempty"`
	ProductLastSync     *time.Time `json:"product_last_sync,omitempty"`
	CustomerLastSync    *time.Time `json:"customer_last_sync,omitempty"`
	SalespersonLastSync *time.Time `json:"salesperson_last_sync,omitempty"`
}

// ---------------------------------------------------------------------------
// Partner import
// ---------------------------------------------------------------------------

// ImportResult is the outcome of a partner import run
type ImportResult struct {
	Success  bool          `json:"success"`
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Total    int           `json:"total"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// SalespersonPreview is a remote salesperson with its local status
type SalespersonPreview struct {
	integration.RemoteSalesperson
	IsNew bool `json:"is_new"`
}

// CustomerPreview is a remote customer with its local status
type CustomerPreview struct {
	integration.RemoteCustomer
	IsNew bool `json:"is_new"`
}
