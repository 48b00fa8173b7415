package models

import (
	"time"

	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for entity tables.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// All returns every model managed by AutoMigrate, parents before children.
func All() []any {
	return []any{
		&CustomerMappingModel{},
		&SalespersonMappingModel{},
		&SystemConfigModel{},
		&SalespersonModel{},
		&CustomerModel{},
		&ErpCustomerModel{},
		&OrderModel{},
		&OrderItemModel{},
		&OrderCustomParamModel{},
		&CategoryModel{},
		&ProductGroupModel{},
		&ProductSkuModel{},
	}
}
