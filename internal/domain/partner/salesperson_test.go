package partner

import (
	"testing"
	"time"

	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImportedSalesperson(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("name falls back to account ID", func(t *testing.T) {
		s, err := NewImportedSalesperson(SalespersonProfile{AccountID: " MP001 ", Department: "Sales"}, "hash", at)
		require.NoError(t, err)
		assert.Equal(t, "MP001", s.AccountID)
		assert.Equal(t, "MP001", s.ChineseName)
		assert.Equal(t, "Sales", s.Department)
		assert.Equal(t, at, *s.ErpSyncAt)
		assert.Equal(t, at, s.CreatedAt)
	})

	t.Run("requires account ID", func(t *testing.T) {
		_, err := NewImportedSalesperson(SalespersonProfile{}, "hash", at)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("requires password hash", func(t *testing.T) {
		_, err := NewImportedSalesperson(SalespersonProfile{AccountID: "MP1"}, "", at)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestSalesperson_ApplyErpProfileKeepsPassword(t *testing.T) {
	s := &Salesperson{AccountID: "MP002", PasswordHash: "secret"}
	s.ApplyErpProfile(SalespersonProfile{ChineseName: "张三", EnglishName: "San"}, time.Now())

	assert.Equal(t, "secret", s.PasswordHash)
	assert.Equal(t, "张三", s.ChineseName)
	assert.Equal(t, "San", s.EnglishName)
}

func TestNewErpCustomer(t *testing.T) {
	spID := uuid.New()
	c, err := NewErpCustomer(ErpCustomerProfile{CusNo: "C001", Country: "CN"}, &spID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "C001", c.Name)
	assert.Equal(t, &spID, c.SalespersonID)

	_, err = NewErpCustomer(ErpCustomerProfile{CusNo: " "}, nil, time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
