package integration

import (
	"context"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MappingService is the administrative surface over entity mappings.
// Sync flows create mappings through EntitySyncService instead.
type MappingService struct {
	mappings integration.EntityMappingRepository
	opts     serviceOptions
}

// NewMappingService creates a new MappingService
func NewMappingService(mappings integration.EntityMappingRepository, opts ...Option) *MappingService {
	return &MappingService{
		mappings: mappings,
		opts:     newServiceOptions(opts),
	}
}

// List returns all mappings of a kind, newest first
func (s *MappingService) List(ctx context.Context, kind integration.EntityKind) ([]MappingResponse, error) {
	if !kind.IsValid() {
		return nil, integration.ErrInvalidEntityKind
	}
	mappings, err := s.mappings.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	return ToMappingResponses(mappings), nil
}

// Get returns the mapping of a local entity
func (s *MappingService) Get(ctx context.Context, kind integration.EntityKind, localID uuid.UUID) (*MappingResponse, error) {
	if !kind.IsValid() {
		return nil, integration.ErrInvalidEntityKind
	}
	m, err := s.mappings.FindByLocalID(ctx, kind, localID)
	if err != nil {
		return nil, err
	}
	resp := ToMappingResponse(m)
	return &resp, nil
}

// Create maps a local entity to an existing ERP code. Duplicates on either
// side fail with ErrMappingConflict.
func (s *MappingService) Create(ctx context.Context, kind integration.EntityKind, localID uuid.UUID, remoteCode string) (*MappingResponse, error) {
	m, err := integration.NewEntityMapping(kind, localID, remoteCode)
	if err != nil {
		return nil, err
	}
	if err := s.mappings.Create(ctx, m); err != nil {
		return nil, err
	}

	s.opts.log(ctx).Info("Entity mapping created",
		zap.String("kind", kind.String()),
		zap.String("local_id", localID.String()),
		zap.String("remote_code", m.RemoteCode),
	)
	resp := ToMappingResponse(m)
	return &resp, nil
}

// Update points an existing mapping at another ERP code
func (s *MappingService) Update(ctx context.Context, kind integration.EntityKind, id uuid.UUID, remoteCode string) (*MappingResponse, error) {
	if !kind.IsValid() {
		return nil, integration.ErrInvalidEntityKind
	}
	m, err := s.mappings.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	previous := m.RemoteCode
	if err := m.Reassign(remoteCode); err != nil {
		return nil, err
	}
	if err := s.mappings.Update(ctx, m); err != nil {
		return nil, err
	}

	s.opts.log(ctx).Info("Entity mapping reassigned",
		zap.String("kind", kind.String()),
		zap.String("mapping_id", id.String()),
		zap.String("from", previous),
		zap.String("to", m.RemoteCode),
	)
	resp := ToMappingResponse(m)
	return &resp, nil
}

// Delete removes a mapping. The ERP row is left untouched.
func (s *MappingService) Delete(ctx context.Context, kind integration.EntityKind, id uuid.UUID) error {
	if !kind.IsValid() {
		return integration.ErrInvalidEntityKind
	}
	if err := s.mappings.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.opts.log(ctx).Info("Entity mapping deleted",
		zap.String("kind", kind.String()),
		zap.String("mapping_id", id.String()),
	)
	return nil
}
