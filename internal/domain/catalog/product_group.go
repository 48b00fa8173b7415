package catalog

import (
	"strings"

	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeatureOption is one selectable feature value of a product group
type FeatureOption struct {
	NameZh string `json:"nameZh"`
	NameEn string `json:"nameEn"`
}

// ProductGroup aggregates the SKUs that share a name prefix. MinPrice,
// MaxPrice, SpecCount and MainImage are derived and only change through
// Recompute.
type ProductGroup struct {
	shared.BaseEntity
	Prefix             string
	GroupNameZh        string
	GroupNameEn        string
	DescriptionZh      *string
	CategoryID         *uuid.UUID
	CategoryCode       string
	OptionalAttributes []FeatureOption
	MinPrice           *decimal.Decimal
	MaxPrice           *decimal.Decimal
	SpecCount          int
	MainImage          *string
}

// NewProductGroup creates a group for prefix. An empty display name falls
// back to the prefix.
func NewProductGroup(prefix, displayName string, description *string, category *Category, options []FeatureOption) (*ProductGroup, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, shared.NewDomainError("INVALID_GROUP_PREFIX", "Product group prefix cannot be empty")
	}
	if displayName == "" {
		displayName = prefix
	}
	g := &ProductGroup{
		BaseEntity:    shared.NewBaseEntity(),
		Prefix:        prefix,
		GroupNameZh:   displayName,
		GroupNameEn:   displayName,
		DescriptionZh: description,
	}
	g.Relink(category, options)
	return g, nil
}

// Relink updates the category link and, when options is non-empty, the
// feature option list.
func (g *ProductGroup) Relink(category *Category, options []FeatureOption) {
	if category != nil {
		g.CategoryID = &category.ID
		g.CategoryCode = category.Code
	}
	if len(options) > 0 {
		g.OptionalAttributes = options
	}
	g.Touch()
}

// Recompute derives the aggregate fields from the group's current SKUs.
func (g *ProductGroup) Recompute(skus []ProductSku) {
	g.MinPrice = nil
	g.MaxPrice = nil
	g.MainImage = nil
	g.SpecCount = len(skus)

	for i := range skus {
		sku := &skus[i]
		if sku.Price != nil {
			p := *sku.Price
			if g.MinPrice == nil || p.LessThan(*g.MinPrice) {
				g.MinPrice = &p
			}
			if g.MaxPrice == nil || p.GreaterThan(*g.MaxPrice) {
				g.MaxPrice = &p
			}
		}
		if g.MainImage == nil {
			if url := sku.FirstImageURL(); url != "" {
				g.MainImage = &url
			}
		}
	}
	g.Touch()
}
