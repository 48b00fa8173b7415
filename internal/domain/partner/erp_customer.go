package partner

import (
	"strings"
	"time"

	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/google/uuid"
)

// ErpCustomer is the local read copy of an ERP customer (CUST with OBJ_ID=1)
type ErpCustomer struct {
	shared.BaseEntity
	CusNo         string
	Name          string
	ShortName     string
	Country       string
	Phone         string
	Email         string
	Address       string
	ContactPerson string
	SalespersonID *uuid.UUID
	ErpSyncAt     *time.Time
}

// ErpCustomerProfile is the data imported from the ERP
type ErpCustomerProfile struct {
	CusNo         string
	Name          string
	ShortName     string
	Country       string
	Phone         string
	Email         string
	Address       string
	ContactPerson string
}

// NewErpCustomer creates the local copy of an ERP customer
func NewErpCustomer(profile ErpCustomerProfile, salespersonID *uuid.UUID, at time.Time) (*ErpCustomer, error) {
	cusNo := strings.TrimSpace(profile.CusNo)
	if cusNo == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "ERP customer number cannot be empty")
	}
	c := &ErpCustomer{
		BaseEntity: shared.NewBaseEntityAt(at),
		CusNo:      cusNo,
	}
	c.Apply(profile, salespersonID, at)
	return c, nil
}

// Apply refreshes the copy from the ERP
func (c *ErpCustomer) Apply(profile ErpCustomerProfile, salespersonID *uuid.UUID, at time.Time) {
	c.Name = profile.Name
	if c.Name == "" {
		c.Name = c.CusNo
	}
	c.ShortName = profile.ShortName
	c.Country = profile.Country
	c.Phone = profile.Phone
	c.Email = profile.Email
	c.Address = profile.Address
	c.ContactPerson = profile.ContactPerson
	c.SalespersonID = salespersonID
	c.ErpSyncAt = &at
	c.UpdatedAt = at
}
