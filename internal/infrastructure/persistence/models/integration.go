package models

import (
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/google/uuid"
)

// Mapping table names, one per entity kind
const (
	CustomerMappingTable    = "erp_customer_mappings"
	SalespersonMappingTable = "erp_salesperson_mappings"
)

// MappingTable returns the table holding mappings of kind
func MappingTable(kind integration.EntityKind) string {
	if kind == integration.EntityKindSalesperson {
		return SalespersonMappingTable
	}
	return CustomerMappingTable
}

// EntityMappingModel is the row shape shared by both mapping tables.
// Repositories pick the table with MappingTable.
type EntityMappingModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	LocalID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	RemoteCode string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	CreatedAt  time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// ToDomain converts the row to a mapping of the given kind
func (m *EntityMappingModel) ToDomain(kind integration.EntityKind) *integration.EntityMapping {
	return &integration.EntityMapping{
		ID:         m.ID,
		Kind:       kind,
		LocalID:    m.LocalID,
		RemoteCode: m.RemoteCode,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain populates the row from a mapping
func (m *EntityMappingModel) FromDomain(e *integration.EntityMapping) {
	m.ID = e.ID
	m.LocalID = e.LocalID
	m.RemoteCode = e.RemoteCode
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// EntityMappingModelFromDomain creates a row from a mapping
func EntityMappingModelFromDomain(e *integration.EntityMapping) *EntityMappingModel {
	m := &EntityMappingModel{}
	m.FromDomain(e)
	return m
}

// CustomerMappingModel binds EntityMappingModel to the customer table for AutoMigrate
type CustomerMappingModel struct {
	EntityMappingModel
}

// TableName returns the table name for GORM
func (CustomerMappingModel) TableName() string {
	return CustomerMappingTable
}

// SalespersonMappingModel binds EntityMappingModel to the salesperson table for AutoMigrate
type SalespersonMappingModel struct {
	EntityMappingModel
}

// TableName returns the table name for GORM
func (SalespersonMappingModel) TableName() string {
	return SalespersonMappingTable
}

// SystemConfigModel is a key/value row of system_configs
type SystemConfigModel struct {
	Key         string    `gorm:"column:key;type:varchar(100);primary_key"`
	Value       string    `gorm:"type:text;not null"`
	ValueType   string    `gorm:"type:varchar(20);not null;default:'text'"`
	Description string    `gorm:"type:varchar(255)"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SystemConfigModel) TableName() string {
	return "system_configs"
}

// ToDomain converts the row to a config entry
func (m *SystemConfigModel) ToDomain() *integration.SystemConfigEntry {
	return &integration.SystemConfigEntry{
		Key:         m.Key,
		Value:       m.Value,
		ValueType:   m.ValueType,
		Description: m.Description,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SystemConfigModelFromDomain creates a row from a config entry
func SystemConfigModelFromDomain(e integration.SystemConfigEntry) *SystemConfigModel {
	return &SystemConfigModel{
		Key:         e.Key,
		Value:       e.Value,
		ValueType:   e.ValueType,
		Description: e.Description,
		UpdatedAt:   e.UpdatedAt,
	}
}
