package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAttributeMark(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind AttributeMarkKind
		display  string
	}{
		{"empty", "", AttributeMarkEmpty, ""},
		{"whitespace", "   ", AttributeMarkEmpty, ""},
		{"structured prefers primary", `{"nameZh":"红色","nameEn":"Red"}`, AttributeMarkStructured, "红色"},
		{"structured falls back to secondary", `{"nameEn":"Red"}`, AttributeMarkStructured, "Red"},
		{"structured with empty primary", `{"nameZh":"","nameEn":"Blue"}`, AttributeMarkStructured, "Blue"},
		{"structured without names", `{"code":"X1"}`, AttributeMarkStructured, ""},
		{"plain text", "Blue / 蓝色", AttributeMarkPlain, "Blue / 蓝色"},
		{"broken json stays plain", `{"nameZh":`, AttributeMarkPlain, `{"nameZh":`},
		{"json array has no names", `["a","b"]`, AttributeMarkStructured, ""},
		{"json number has no names", "123", AttributeMarkStructured, ""},
		{"json boolean has no names", "true", AttributeMarkStructured, ""},
		{"json string has no names", `"x"`, AttributeMarkStructured, ""},
		{"json null stays plain", "null", AttributeMarkPlain, "null"},
		{"non-string name is ignored", `{"nameZh":5,"nameEn":"Red"}`, AttributeMarkStructured, "Red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mark := ParseAttributeMark(tt.raw)
			assert.Equal(t, tt.wantKind, mark.Kind)
			assert.Equal(t, tt.display, mark.Display())
		})
	}
}
