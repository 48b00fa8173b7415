package persistence

import (
	"context"
	"errors"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSystemConfigRepository implements integration.SystemConfigRepository
type GormSystemConfigRepository struct {
	db *gorm.DB
}

// NewGormSystemConfigRepository creates a new GormSystemConfigRepository
func NewGormSystemConfigRepository(db *gorm.DB) *GormSystemConfigRepository {
	return &GormSystemConfigRepository{db: db}
}

// Get returns the entry for key
func (r *GormSystemConfigRepository) Get(ctx context.Context, key string) (*integration.SystemConfigEntry, error) {
	var model models.SystemConfigModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrConfigKeyNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateIfAbsent inserts entry unless its key exists, then returns whatever
// is stored. Concurrent callers all observe the first writer's value.
func (r *GormSystemConfigRepository) CreateIfAbsent(ctx context.Context, entry integration.SystemConfigEntry) (*integration.SystemConfigEntry, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(models.SystemConfigModelFromDomain(entry)).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, entry.Key)
}

// Upsert inserts or overwrites the entry
func (r *GormSystemConfigRepository) Upsert(ctx context.Context, entry integration.SystemConfigEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "description", "updated_at"}),
		}).
		Create(models.SystemConfigModelFromDomain(entry)).Error
}

var _ integration.SystemConfigRepository = (*GormSystemConfigRepository)(nil)
