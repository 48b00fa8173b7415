package integration

import (
	"encoding/json"
	"strings"
)

// AttributeMarkKind tags which variant an AttributeMark holds
type AttributeMarkKind int

const (
	// AttributeMarkEmpty means the item carries no attribute text
	AttributeMarkEmpty AttributeMarkKind = iota
	// AttributeMarkStructured means the field held a localized name object
	AttributeMarkStructured
	// AttributeMarkPlain means the field held free text
	AttributeMarkPlain
)

// StructuredName is the localized name object stored in additional attributes
type StructuredName struct {
	Primary   string `json:"nameZh"`
	Secondary string `json:"nameEn"`
}

// AttributeMark is the parsed additional-attributes field of an order item.
// Exactly one of Structured or Plain is meaningful, selected by Kind.
type AttributeMark struct {
	Kind       AttributeMarkKind
	Structured StructuredName
	Plain      string
}

// ParseAttributeMark turns the raw field into a tagged variant. Any JSON
// value other than null is structured: an object supplies the names, while
// numbers, strings, booleans and arrays carry none and display as "".
// Text that is not JSON, and a bare null, stay plain.
func ParseAttributeMark(raw string) AttributeMark {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return AttributeMark{Kind: AttributeMarkEmpty}
	}
	if trimmed == "null" || !json.Valid([]byte(trimmed)) {
		return AttributeMark{Kind: AttributeMarkPlain, Plain: raw}
	}

	var name StructuredName
	if strings.HasPrefix(trimmed, "{") {
		// a non-string name fails only its own field
		_ = json.Unmarshal([]byte(trimmed), &name)
	}
	return AttributeMark{Kind: AttributeMarkStructured, Structured: name}
}

// Display returns the text written to the ERP mark columns: the primary
// name, else the secondary name, else the raw text.
func (m AttributeMark) Display() string {
	switch m.Kind {
	case AttributeMarkStructured:
		if m.Structured.Primary != "" {
			return m.Structured.Primary
		}
		return m.Structured.Secondary
	case AttributeMarkPlain:
		return m.Plain
	default:
		return ""
	}
}
