package models

import (
	"encoding/json"
	"time"

	"github.com/erp/syncengine/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CategoryModel is a product category
type CategoryModel struct {
	BaseModel
	Code          string `gorm:"type:varchar(20);not null;uniqueIndex"`
	NameZh        string `gorm:"type:varchar(100);not null"`
	NameEn        string `gorm:"type:varchar(100);not null"`
	IsAutoCreated bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:    m.BaseModel.ToDomain(),
		Code:          m.Code,
		NameZh:        m.NameZh,
		NameEn:        m.NameEn,
		IsAutoCreated: m.IsAutoCreated,
	}
}

// CategoryModelFromDomain creates a model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Code:          c.Code,
		NameZh:        c.NameZh,
		NameEn:        c.NameEn,
		IsAutoCreated: c.IsAutoCreated,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// ProductGroupModel is a product group keyed by its name prefix
type ProductGroupModel struct {
	BaseModel
	Prefix             string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	GroupNameZh        string           `gorm:"type:varchar(200);not null"`
	GroupNameEn        string           `gorm:"type:varchar(200);not null"`
	DescriptionZh      *string          `gorm:"type:text"`
	CategoryID         *uuid.UUID       `gorm:"type:uuid;index"`
	CategoryCode       string           `gorm:"type:varchar(20)"`
	OptionalAttributes datatypes.JSON   `gorm:"type:jsonb"`
	MinPrice           *decimal.Decimal `gorm:"type:decimal(18,4)"`
	MaxPrice           *decimal.Decimal `gorm:"type:decimal(18,4)"`
	SpecCount          int              `gorm:"not null;default:0"`
	MainImage          *string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProductGroupModel) TableName() string {
	return "product_groups"
}

// ToDomain converts the model to a domain ProductGroup. A malformed option
// column reads as no options.
func (m *ProductGroupModel) ToDomain() *catalog.ProductGroup {
	g := &catalog.ProductGroup{
		BaseEntity:    m.BaseModel.ToDomain(),
		Prefix:        m.Prefix,
		GroupNameZh:   m.GroupNameZh,
		GroupNameEn:   m.GroupNameEn,
		DescriptionZh: m.DescriptionZh,
		CategoryID:    m.CategoryID,
		CategoryCode:  m.CategoryCode,
		MinPrice:      m.MinPrice,
		MaxPrice:      m.MaxPrice,
		SpecCount:     m.SpecCount,
		MainImage:     m.MainImage,
	}
	if len(m.OptionalAttributes) > 0 {
		var options []catalog.FeatureOption
		if err := json.Unmarshal(m.OptionalAttributes, &options); err == nil {
			g.OptionalAttributes = options
		}
	}
	return g
}

// ProductGroupModelFromDomain creates a model from a domain ProductGroup
func ProductGroupModelFromDomain(g *catalog.ProductGroup) (*ProductGroupModel, error) {
	m := &ProductGroupModel{
		Prefix:        g.Prefix,
		GroupNameZh:   g.GroupNameZh,
		GroupNameEn:   g.GroupNameEn,
		DescriptionZh: g.DescriptionZh,
		CategoryID:    g.CategoryID,
		CategoryCode:  g.CategoryCode,
		MinPrice:      g.MinPrice,
		MaxPrice:      g.MaxPrice,
		SpecCount:     g.SpecCount,
		MainImage:     g.MainImage,
	}
	m.FromDomainBaseEntity(g.BaseEntity)
	if g.OptionalAttributes != nil {
		b, err := json.Marshal(g.OptionalAttributes)
		if err != nil {
			return nil, err
		}
		m.OptionalAttributes = datatypes.JSON(b)
	}
	return m, nil
}

// ProductSkuModel is a sellable product keyed by ERP product code
type ProductSkuModel struct {
	BaseModel
	ProductCode   string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProductName   string           `gorm:"type:varchar(200);not null"`
	Specification *string          `gorm:"type:text"`
	GroupID       *uuid.UUID       `gorm:"type:uuid;index"`
	Price         *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Images        datatypes.JSON   `gorm:"type:jsonb"`
	IsActive      bool             `gorm:"not null;default:false"`
	IsPublished   bool             `gorm:"not null;default:false"`
	ImportDate    *time.Time
}

// TableName returns the table name for GORM
func (ProductSkuModel) TableName() string {
	return "product_skus"
}

// ToDomain converts the model to a domain ProductSku
func (m *ProductSkuModel) ToDomain() *catalog.ProductSku {
	s := &catalog.ProductSku{
		BaseEntity:    m.BaseModel.ToDomain(),
		ProductCode:   m.ProductCode,
		ProductName:   m.ProductName,
		Specification: m.Specification,
		GroupID:       m.GroupID,
		Price:         m.Price,
		IsActive:      m.IsActive,
		IsPublished:   m.IsPublished,
		ImportDate:    m.ImportDate,
	}
	if len(m.Images) > 0 {
		var images []catalog.SkuImage
		if err := json.Unmarshal(m.Images, &images); err == nil {
			s.Images = images
		}
	}
	return s
}

// ProductSkuModelFromDomain creates a model from a domain ProductSku
func ProductSkuModelFromDomain(s *catalog.ProductSku) (*ProductSkuModel, error) {
	m := &ProductSkuModel{
		ProductCode:   s.ProductCode,
		ProductName:   s.ProductName,
		Specification: s.Specification,
		GroupID:       s.GroupID,
		Price:         s.Price,
		IsActive:      s.IsActive,
		IsPublished:   s.IsPublished,
		ImportDate:    s.ImportDate,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	if s.Images != nil {
		b, err := json.Marshal(s.Images)
		if err != nil {
			return nil, err
		}
		m.Images = datatypes.JSON(b)
	}
	return m, nil
}
