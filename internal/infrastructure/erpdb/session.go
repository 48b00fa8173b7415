package erpdb

import (
	"context"

	"gorm.io/gorm"
)

// statement returns a handle whose context carries the per-statement
// deadline. cancel must be called once the statement has been consumed.
func (m *ConnectionManager) statement(ctx context.Context) (*gorm.DB, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, m.RequestTimeout())
	db, err := m.Get(ctx)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return db, cancel, nil
}
