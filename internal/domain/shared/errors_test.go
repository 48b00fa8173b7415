package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	custom := NewDomainError("NOT_FOUND", "order 42 not found")

	assert.True(t, errors.Is(custom, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("load: %w", custom), ErrNotFound))
	assert.False(t, errors.Is(custom, ErrConflict))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"domain error", ErrConflict, "CONFLICT"},
		{"wrapped domain error", fmt.Errorf("create: %w", ErrInvalidInput), "INVALID_INPUT"},
		{"plain error", errors.New("boom"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}
