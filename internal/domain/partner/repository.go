package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines read access to website customers
type CustomerRepository interface {
	// FindByID returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
}

// SalespersonRepository defines persistence for salespersons
type SalespersonRepository interface {
	// FindByID returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Salesperson, error)

	// FindByAccountIDs returns the salespersons whose account IDs are listed
	FindByAccountIDs(ctx context.Context, accountIDs []string) ([]Salesperson, error)

	// Save creates or updates a salesperson
	Save(ctx context.Context, s *Salesperson) error
}

// ErpCustomerRepository defines persistence for imported ERP customers
type ErpCustomerRepository interface {
	// FindByCusNos returns the local copies of the listed ERP customers
	FindByCusNos(ctx context.Context, cusNos []string) ([]ErpCustomer, error)

	// Save creates or updates an ERP customer copy
	Save(ctx context.Context, c *ErpCustomer) error
}
