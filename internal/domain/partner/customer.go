package partner

import (
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is a website customer. The sync engine only reads it when
// provisioning the matching ERP customer row.
type Customer struct {
	shared.BaseEntity
	Name          string
	Phone         string
	Email         string
	Country       string
	ContactPerson string
	Remarks       string
	SalespersonID *uuid.UUID
}
