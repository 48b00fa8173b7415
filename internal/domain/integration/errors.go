package integration

import "errors"

// Sentinel errors for the integration context
var (
	ErrSyncInProgress     = errors.New("integration: another sync of the same kind is in progress")
	ErrMappingNotFound    = errors.New("integration: entity mapping not found")
	ErrMappingConflict    = errors.New("integration: entity mapping already exists")
	ErrInvalidEntityKind  = errors.New("integration: invalid entity kind")
	ErrInvalidLocalID     = errors.New("integration: invalid local entity ID")
	ErrInvalidRemoteCode  = errors.New("integration: invalid remote code")
	ErrLocalEntityMissing = errors.New("integration: local entity not found")
	ErrOrderNotFound      = errors.New("integration: order not found")
	ErrOrderHasNoItems    = errors.New("integration: order has no items")
	ErrOrderNoSalesperson = errors.New("integration: order has no salesperson")
	ErrOrderNoCustomer    = errors.New("integration: order has no customer")
	ErrConfigKeyNotFound  = errors.New("integration: system config key not found")
	ErrInvalidTimestamp   = errors.New("integration: stored timestamp is not ISO-8601")
)
