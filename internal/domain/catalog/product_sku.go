package catalog

import (
	"strings"
	"time"

	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SkuImage is one entry of a SKU's image list
type SkuImage struct {
	URL string `json:"url"`
}

// ProductSku is a sellable product keyed by its ERP product code
type ProductSku struct {
	shared.BaseEntity
	ProductCode   string
	ProductName   string
	Specification *string
	GroupID       *uuid.UUID
	Price         *decimal.Decimal
	Images        []SkuImage
	IsActive      bool
	IsPublished   bool
	ImportDate    *time.Time
}

// NewImportedSku creates a SKU from an ERP product. Imported SKUs start
// inactive and unpublished until someone prices and reviews them.
func NewImportedSku(code, name string, specification *string, groupID uuid.UUID, importDate time.Time) (*ProductSku, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	s := &ProductSku{
		BaseEntity:  shared.NewBaseEntity(),
		ProductCode: code,
		IsActive:    false,
		IsPublished: false,
	}
	if !importDate.IsZero() {
		s.ImportDate = &importDate
	}
	s.ApplyRemote(name, specification, groupID)
	return s, nil
}

// ApplyRemote refreshes the ERP-owned fields
func (s *ProductSku) ApplyRemote(name string, specification *string, groupID uuid.UUID) {
	s.ProductName = name
	if specification != nil && *specification == "" {
		specification = nil
	}
	s.Specification = specification
	s.GroupID = &groupID
	s.Touch()
}

// FirstImageURL returns the URL of the first image, or "" without images
func (s *ProductSku) FirstImageURL() string {
	if len(s.Images) == 0 {
		return ""
	}
	return s.Images[0].URL
}
