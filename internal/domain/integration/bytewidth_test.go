package integration

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestByteWidth(t *testing.T) {
	assert.Equal(t, 0, ByteWidth(""))
	assert.Equal(t, 5, ByteWidth("hello"))
	assert.Equal(t, 4, ByteWidth("红色"))
	assert.Equal(t, 6, ByteWidth("A红B色"))
	assert.Equal(t, 2, ByteWidth("³"))
}

func TestTruncateBytes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		budget int
		want   string
	}{
		{"fits exactly", "abc", 3, "abc"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"double byte cut on boundary", "红色蓝色", 4, "红色"},
		{"double byte never split", "红色蓝色", 5, "红色"},
		{"mixed keeps last whole char", "A红B色C", 4, "A红B"},
		{"mixed drops char that would overflow", "AB红", 3, "AB"},
		{"zero budget", "abc", 0, ""},
		{"negative budget", "abc", -1, ""},
		{"empty input", "", 10, ""},
		{"budget larger than input", "红", 10, "红"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateBytes(tt.input, tt.budget)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, ByteWidth(got), max(tt.budget, 0))
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncateBytes_NeverExceedsBudget(t *testing.T) {
	input := "MB001-涤锦经编抹布10PCS,颜色:红/Red"
	for budget := 0; budget <= ByteWidth(input)+2; budget++ {
		got := TruncateBytes(input, budget)
		assert.LessOrEqual(t, ByteWidth(got), budget, "budget %d", budget)
		assert.True(t, utf8.ValidString(got))

		// adding the next rune must overflow, otherwise we cut too early
		rest := input[len(got):]
		if rest != "" {
			r, _ := utf8.DecodeRuneInString(rest)
			assert.Greater(t, ByteWidth(got)+RuneByteWidth(r), budget, "budget %d", budget)
		}
	}
}

func TestTruncatePtr(t *testing.T) {
	assert.Nil(t, TruncatePtr(nil, 10))

	s := "红色蓝色"
	got := TruncatePtr(&s, 2)
	if assert.NotNil(t, got) {
		assert.Equal(t, "红", *got)
	}
}
