package integration

// ---------------------------------------------------------------------------
// Order Sync Status
// ---------------------------------------------------------------------------

// OrderSyncStatus is the ERP export state of a local order
type OrderSyncStatus string

const (
	// OrderSyncStatusUnset means the order was never queued or attempted
	OrderSyncStatusUnset OrderSyncStatus = ""
	// OrderSyncStatusPending means the order is waiting to be exported
	OrderSyncStatusPending OrderSyncStatus = "pending"
	// OrderSyncStatusSynced means the order exists in the ERP
	OrderSyncStatusSynced OrderSyncStatus = "synced"
	// OrderSyncStatusFailed means the last attempt failed and was rolled back
	OrderSyncStatusFailed OrderSyncStatus = "failed"
)

// IsValid returns true if the status is one of the known states
func (s OrderSyncStatus) IsValid() bool {
	switch s {
	case OrderSyncStatusUnset, OrderSyncStatusPending, OrderSyncStatusSynced, OrderSyncStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderSyncStatus
func (s OrderSyncStatus) String() string {
	if s == OrderSyncStatusUnset {
		return "unset"
	}
	return string(s)
}

// IsAwaitingSync reports whether the order still has to be exported
func (s OrderSyncStatus) IsAwaitingSync() bool {
	return s == OrderSyncStatusUnset || s == OrderSyncStatusPending
}

// CanTransitionTo enforces the export state machine: unset and pending move
// to synced or failed, failed can be retried into synced or failed again,
// and unset can be queued as pending. Synced is terminal for the engine.
func (s OrderSyncStatus) CanTransitionTo(next OrderSyncStatus) bool {
	switch s {
	case OrderSyncStatusUnset:
		return next == OrderSyncStatusPending || next == OrderSyncStatusSynced || next == OrderSyncStatusFailed
	case OrderSyncStatusPending, OrderSyncStatusFailed:
		return next == OrderSyncStatusSynced || next == OrderSyncStatusFailed || next == OrderSyncStatusPending
	default:
		return false
	}
}
