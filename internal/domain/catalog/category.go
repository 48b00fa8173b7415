package catalog

import (
	"strings"

	"github.com/erp/syncengine/internal/domain/shared"
)

// Category groups product groups by their leading letter code
type Category struct {
	shared.BaseEntity
	Code          string
	NameZh        string
	NameEn        string
	IsAutoCreated bool
}

// NewAutoCategory creates a placeholder category discovered during product
// import. Both names start out as the code.
func NewAutoCategory(code string) (*Category, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_CODE", "Category code cannot be empty")
	}
	return &Category{
		BaseEntity:    shared.NewBaseEntity(),
		Code:          code,
		NameZh:        code,
		NameEn:        code,
		IsAutoCreated: true,
	}, nil
}
