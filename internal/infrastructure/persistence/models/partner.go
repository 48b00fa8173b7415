package models

import (
	"time"

	"github.com/erp/syncengine/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerModel is a website customer
type CustomerModel struct {
	BaseModel
	Name          string     `gorm:"type:varchar(200);not null"`
	Phone         string     `gorm:"type:varchar(50)"`
	Email         string     `gorm:"type:varchar(200)"`
	Country       string     `gorm:"type:varchar(100)"`
	ContactPerson string     `gorm:"type:varchar(100)"`
	Remarks       string     `gorm:"type:text"`
	SalespersonID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity:    m.BaseModel.ToDomain(),
		Name:          m.Name,
		Phone:         m.Phone,
		Email:         m.Email,
		Country:       m.Country,
		ContactPerson: m.ContactPerson,
		Remarks:       m.Remarks,
		SalespersonID: m.SalespersonID,
	}
}

// CustomerModelFromDomain creates a model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Country:       c.Country,
		ContactPerson: c.ContactPerson,
		Remarks:       c.Remarks,
		SalespersonID: c.SalespersonID,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// SalespersonModel is a website salesperson account
type SalespersonModel struct {
	BaseModel
	AccountID    string `gorm:"type:varchar(50);not null;uniqueIndex"`
	ChineseName  string `gorm:"type:varchar(100);not null"`
	EnglishName  string `gorm:"type:varchar(100)"`
	Department   string `gorm:"type:varchar(100)"`
	Position     string `gorm:"type:varchar(100)"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	ErpSyncAt    *time.Time
}

// TableName returns the table name for GORM
func (SalespersonModel) TableName() string {
	return "salespersons"
}

// ToDomain converts the model to a domain Salesperson
func (m *SalespersonModel) ToDomain() *partner.Salesperson {
	return &partner.Salesperson{
		BaseEntity:   m.BaseModel.ToDomain(),
		AccountID:    m.AccountID,
		ChineseName:  m.ChineseName,
		EnglishName:  m.EnglishName,
		Department:   m.Department,
		Position:     m.Position,
		PasswordHash: m.PasswordHash,
		ErpSyncAt:    m.ErpSyncAt,
	}
}

// SalespersonModelFromDomain creates a model from a domain Salesperson
func SalespersonModelFromDomain(s *partner.Salesperson) *SalespersonModel {
	m := &SalespersonModel{
		AccountID:    s.AccountID,
		ChineseName:  s.ChineseName,
		EnglishName:  s.EnglishName,
		Department:   s.Department,
		Position:     s.Position,
		PasswordHash: s.PasswordHash,
		ErpSyncAt:    s.ErpSyncAt,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// ErpCustomerModel is the local snapshot of an ERP customer
type ErpCustomerModel struct {
	BaseModel
	CusNo         string     `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name          string     `gorm:"type:varchar(200);not null"`
	ShortName     string     `gorm:"type:varchar(100)"`
	Country       string     `gorm:"type:varchar(100)"`
	Phone         string     `gorm:"type:varchar(50)"`
	Email         string     `gorm:"type:varchar(200)"`
	Address       string     `gorm:"type:varchar(500)"`
	ContactPerson string     `gorm:"type:varchar(100)"`
	SalespersonID *uuid.UUID `gorm:"type:uuid;index"`
	ErpSyncAt     *time.Time
}

// TableName returns the table name for GORM
func (ErpCustomerModel) TableName() string {
	return "erp_customers"
}

// ToDomain converts the model to a domain ErpCustomer
func (m *ErpCustomerModel) ToDomain() *partner.ErpCustomer {
	return &partner.ErpCustomer{
		BaseEntity:    m.BaseModel.ToDomain(),
		CusNo:         m.CusNo,
		Name:          m.Name,
		ShortName:     m.ShortName,
		Country:       m.Country,
		Phone:         m.Phone,
		Email:         m.Email,
		Address:       m.Address,
		ContactPerson: m.ContactPerson,
		SalespersonID: m.SalespersonID,
		ErpSyncAt:     m.ErpSyncAt,
	}
}

// ErpCustomerModelFromDomain creates a model from a domain ErpCustomer
func ErpCustomerModelFromDomain(c *partner.ErpCustomer) *ErpCustomerModel {
	m := &ErpCustomerModel{
		CusNo:         c.CusNo,
		Name:          c.Name,
		ShortName:     c.ShortName,
		Country:       c.Country,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		ContactPerson: c.ContactPerson,
		SalespersonID: c.SalespersonID,
		ErpSyncAt:     c.ErpSyncAt,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
