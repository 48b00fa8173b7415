package partner

import (
	"strings"
	"time"

	"github.com/erp/syncengine/internal/domain/shared"
)

// DefaultSalespersonPassword is assigned to salespersons imported from the
// ERP until they change it.
const DefaultSalespersonPassword = "123456"

// Salesperson is a website salesperson account
type Salesperson struct {
	shared.BaseEntity
	AccountID    string
	ChineseName  string
	EnglishName  string
	Department   string
	Position     string
	PasswordHash string
	ErpSyncAt    *time.Time
}

// SalespersonProfile is the ERP-owned part of a salesperson record
type SalespersonProfile struct {
	AccountID   string
	ChineseName string
	EnglishName string
	Department  string
	Position    string
}

// NewImportedSalesperson creates a salesperson from an ERP profile
func NewImportedSalesperson(profile SalespersonProfile, passwordHash string, at time.Time) (*Salesperson, error) {
	accountID := strings.TrimSpace(profile.AccountID)
	if accountID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Salesperson account ID cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Salesperson password hash cannot be empty")
	}

	s := &Salesperson{
		BaseEntity:   shared.NewBaseEntityAt(at),
		AccountID:    accountID,
		PasswordHash: passwordHash,
	}
	s.ApplyErpProfile(profile, at)
	return s, nil
}

// ApplyErpProfile overwrites the ERP-owned fields. The password is never touched.
func (s *Salesperson) ApplyErpProfile(profile SalespersonProfile, at time.Time) {
	s.ChineseName = profile.ChineseName
	if s.ChineseName == "" {
		s.ChineseName = s.AccountID
	}
	s.EnglishName = profile.EnglishName
	s.Department = profile.Department
	s.Position = profile.Position
	s.ErpSyncAt = &at
	s.UpdatedAt = at
}
