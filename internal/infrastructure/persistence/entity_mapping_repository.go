package persistence

import (
	"context"
	"errors"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEntityMappingRepository implements integration.EntityMappingRepository
// over the per-kind mapping tables.
type GormEntityMappingRepository struct {
	db *gorm.DB
}

// NewGormEntityMappingRepository creates a new GormEntityMappingRepository
func NewGormEntityMappingRepository(db *gorm.DB) *GormEntityMappingRepository {
	return &GormEntityMappingRepository{db: db}
}

func (r *GormEntityMappingRepository) table(ctx context.Context, kind integration.EntityKind) (*gorm.DB, error) {
	if !kind.IsValid() {
		return nil, integration.ErrInvalidEntityKind
	}
	return r.db.WithContext(ctx).Table(models.MappingTable(kind)), nil
}

func (r *GormEntityMappingRepository) findOne(ctx context.Context, kind integration.EntityKind, query string, arg any) (*integration.EntityMapping, error) {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var model models.EntityMappingModel
	if err := tx.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(kind), nil
}

// FindByID finds a mapping by its ID
func (r *GormEntityMappingRepository) FindByID(ctx context.Context, kind integration.EntityKind, id uuid.UUID) (*integration.EntityMapping, error) {
	return r.findOne(ctx, kind, "id = ?", id)
}

// FindByLocalID finds the mapping of a local entity
func (r *GormEntityMappingRepository) FindByLocalID(ctx context.Context, kind integration.EntityKind, localID uuid.UUID) (*integration.EntityMapping, error) {
	return r.findOne(ctx, kind, "local_id = ?", localID)
}

// FindByRemoteCode finds a mapping by ERP code
func (r *GormEntityMappingRepository) FindByRemoteCode(ctx context.Context, kind integration.EntityKind, remoteCode string) (*integration.EntityMapping, error) {
	return r.findOne(ctx, kind, "remote_code = ?", remoteCode)
}

// List returns all mappings of a kind, newest first
func (r *GormEntityMappingRepository) List(ctx context.Context, kind integration.EntityKind) ([]integration.EntityMapping, error) {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var rows []models.EntityMappingModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	mappings := make([]integration.EntityMapping, len(rows))
	for i := range rows {
		mappings[i] = *rows[i].ToDomain(kind)
	}
	return mappings, nil
}

// ListByCodePrefix returns mappings whose remote code starts with prefix, newest first
func (r *GormEntityMappingRepository) ListByCodePrefix(ctx context.Context, kind integration.EntityKind, prefix string) ([]integration.EntityMapping, error) {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}
	var rows []models.EntityMappingModel
	if err := tx.Where(prefixClause, integration.PrefixPattern(prefix)).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	mappings := make([]integration.EntityMapping, len(rows))
	for i := range rows {
		mappings[i] = *rows[i].ToDomain(kind)
	}
	return mappings, nil
}

// CountByCodePrefix counts mappings whose remote code starts with prefix
func (r *GormEntityMappingRepository) CountByCodePrefix(ctx context.Context, kind integration.EntityKind, prefix string) (int64, error) {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Where(prefixClause, integration.PrefixPattern(prefix)).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new mapping. A duplicate local ID or remote code
// returns integration.ErrMappingConflict.
func (r *GormEntityMappingRepository) Create(ctx context.Context, mapping *integration.EntityMapping) error {
	tx, err := r.table(ctx, mapping.Kind)
	if err != nil {
		return err
	}
	if err := tx.Create(models.EntityMappingModelFromDomain(mapping)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return integration.ErrMappingConflict
		}
		return err
	}
	return nil
}

// Update persists a changed remote code
func (r *GormEntityMappingRepository) Update(ctx context.Context, mapping *integration.EntityMapping) error {
	tx, err := r.table(ctx, mapping.Kind)
	if err != nil {
		return err
	}
	result := tx.Where("id = ?", mapping.ID).Updates(map[string]any{
		"remote_code": mapping.RemoteCode,
		"updated_at":  mapping.UpdatedAt,
	})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return integration.ErrMappingConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrMappingNotFound
	}
	return nil
}

// Delete removes a mapping by ID
func (r *GormEntityMappingRepository) Delete(ctx context.Context, kind integration.EntityKind, id uuid.UUID) error {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return err
	}
	result := tx.Where("id = ?", id).Delete(&models.EntityMappingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrMappingNotFound
	}
	return nil
}

// DeleteByCodePrefix removes every mapping whose remote code starts with prefix
func (r *GormEntityMappingRepository) DeleteByCodePrefix(ctx context.Context, kind integration.EntityKind, prefix string) (int64, error) {
	tx, err := r.table(ctx, kind)
	if err != nil {
		return 0, err
	}
	result := tx.Where(prefixClause, integration.PrefixPattern(prefix)).Delete(&models.EntityMappingModel{})
	return result.RowsAffected, result.Error
}

const prefixClause = `remote_code LIKE ? ESCAPE '\'`

var _ integration.EntityMappingRepository = (*GormEntityMappingRepository)(nil)
