package integration

import (
	"context"
	"time"
)

// Well-known system config keys holding sync timestamps
const (
	ConfigKeyProductSyncBaseline = "erp_product_sync_baseline"
	ConfigKeyProductLastSync     = "erp_product_last_sync"
	ConfigKeyCustomerLastSync    = "erp_customer_last_sync"
	ConfigKeySalespersonLastSync = "erp_salesperson_last_sync"
)

const (
	configTimestampLayout           = time.RFC3339Nano
	configDescriptionBaseline       = "ERP product sync baseline (history before it is never imported)"
	configDescriptionLastSyncSuffix = " last successful run"
)

// SyncKind names a pull-style sync whose last run time is recorded
type SyncKind string

const (
	SyncKindProduct     SyncKind = "product"
	SyncKindCustomer    SyncKind = "customer"
	SyncKindSalesperson SyncKind = "salesperson"
)

// LastSyncKey returns the config key recording the kind's last run
func (k SyncKind) LastSyncKey() string {
	switch k {
	case SyncKindCustomer:
		return ConfigKeyCustomerLastSync
	case SyncKindSalesperson:
		return ConfigKeySalespersonLastSync
	default:
		return ConfigKeyProductLastSync
	}
}

// SystemConfigEntry is one key/value row of the local system config table
type SystemConfigEntry struct {
	Key         string
	Value       string
	ValueType   string
	Description string
	UpdatedAt   time.Time
}

// NewTimestampEntry builds an entry holding t as an ISO-8601 string
func NewTimestampEntry(key string, t time.Time) SystemConfigEntry {
	desc := configDescriptionBaseline
	if key != ConfigKeyProductSyncBaseline {
		desc = key + configDescriptionLastSyncSuffix
	}
	return SystemConfigEntry{
		Key:         key,
		Value:       FormatTimestamp(t),
		ValueType:   "text",
		Description: desc,
		UpdatedAt:   time.Now(),
	}
}

// FormatTimestamp renders t the way sync timestamps are stored
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(configTimestampLayout)
}

// ParseTimestamp reads a stored sync timestamp
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(configTimestampLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	return t, nil
}

// SystemConfigRepository is the generic key/value store used for sync state
type SystemConfigRepository interface {
	// Get returns ErrConfigKeyNotFound when the key is absent
	Get(ctx context.Context, key string) (*SystemConfigEntry, error)

	// CreateIfAbsent inserts the entry unless the key exists and returns the
	// stored entry either way
	CreateIfAbsent(ctx context.Context, entry SystemConfigEntry) (*SystemConfigEntry, error)

	// Upsert inserts or overwrites the entry
	Upsert(ctx context.Context, entry SystemConfigEntry) error
}
