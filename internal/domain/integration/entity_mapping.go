package integration

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// EntityKind
// ---------------------------------------------------------------------------

// EntityKind identifies which local entity type a mapping belongs to
type EntityKind string

const (
	// EntityKindCustomer maps local customers to ERP CUST.CUS_NO
	EntityKindCustomer EntityKind = "customer"
	// EntityKindSalesperson maps local salespersons to ERP SALM.SAL_NO
	EntityKindSalesperson EntityKind = "salesperson"
)

// AllEntityKinds lists every supported kind in provisioning order.
var AllEntityKinds = []EntityKind{EntityKindSalesperson, EntityKindCustomer}

// IsValid returns true if the kind is supported
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindCustomer, EntityKindSalesperson:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityKind
func (k EntityKind) String() string {
	return string(k)
}

// ParseEntityKind parses a user supplied kind, accepting a few aliases.
func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "customers", "cust":
		return EntityKindCustomer, nil
	case "salesperson", "salespersons", "sales", "salm":
		return EntityKindSalesperson, nil
	default:
		return "", ErrInvalidEntityKind
	}
}

// ---------------------------------------------------------------------------
// EntityMapping Entity
// ---------------------------------------------------------------------------

// EntityMapping is the persisted correspondence between a local entity and
// its ERP code. One mapping per local entity; the remote code is unique too.
type EntityMapping struct {
	ID         uuid.UUID
	Kind       EntityKind
	LocalID    uuid.UUID
	RemoteCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewEntityMapping creates a new mapping
func NewEntityMapping(kind EntityKind, localID uuid.UUID, remoteCode string) (*EntityMapping, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidEntityKind
	}
	if localID == uuid.Nil {
		return nil, ErrInvalidLocalID
	}
	remoteCode = strings.TrimSpace(remoteCode)
	if remoteCode == "" {
		return nil, ErrInvalidRemoteCode
	}

	now := time.Now()
	return &EntityMapping{
		ID:         uuid.New(),
		Kind:       kind,
		LocalID:    localID,
		RemoteCode: remoteCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Reassign points the mapping at a different remote code. Only the
// administrative update path calls this; sync flows never do.
func (m *EntityMapping) Reassign(remoteCode string) error {
	remoteCode = strings.TrimSpace(remoteCode)
	if remoteCode == "" {
		return ErrInvalidRemoteCode
	}
	m.RemoteCode = remoteCode
	m.UpdatedAt = time.Now()
	return nil
}

// HasCodePrefix reports whether the remote code starts with prefix.
func (m *EntityMapping) HasCodePrefix(prefix string) bool {
	return strings.HasPrefix(m.RemoteCode, prefix)
}

// ---------------------------------------------------------------------------
// EntityMappingRepository Interface
// ---------------------------------------------------------------------------

// EntityMappingReader defines read access to mappings
type EntityMappingReader interface {
	// FindByID finds a mapping by its ID
	FindByID(ctx context.Context, kind EntityKind, id uuid.UUID) (*EntityMapping, error)

	// FindByLocalID returns ErrMappingNotFound when the entity is unmapped
	FindByLocalID(ctx context.Context, kind EntityKind, localID uuid.UUID) (*EntityMapping, error)

	// FindByRemoteCode finds a mapping by ERP code
	FindByRemoteCode(ctx context.Context, kind EntityKind, remoteCode string) (*EntityMapping, error)
}

// EntityMappingFinder defines listing operations
type EntityMappingFinder interface {
	// List returns all mappings of a kind, newest first
	List(ctx context.Context, kind EntityKind) ([]EntityMapping, error)

	// ListByCodePrefix returns mappings whose remote code starts with prefix, newest first
	ListByCodePrefix(ctx context.Context, kind EntityKind, prefix string) ([]EntityMapping, error)

	// CountByCodePrefix counts mappings whose remote code starts with prefix
	CountByCodePrefix(ctx context.Context, kind EntityKind, prefix string) (int64, error)
}

// EntityMappingWriter defines mutations
type EntityMappingWriter interface {
	// Create inserts a new mapping; duplicates surface as ErrMappingConflict
	Create(ctx context.Context, mapping *EntityMapping) error

	// Update persists a changed remote code
	Update(ctx context.Context, mapping *EntityMapping) error

	// Delete removes a mapping by ID
	Delete(ctx context.Context, kind EntityKind, id uuid.UUID) error

	// DeleteByCodePrefix removes every mapping whose remote code starts with prefix
	DeleteByCodePrefix(ctx context.Context, kind EntityKind, prefix string) (int64, error)
}

// EntityMappingRepository is the full persistence port for mappings
type EntityMappingRepository interface {
	EntityMappingReader
	EntityMappingFinder
	EntityMappingWriter
}
