// Package testutil holds shared test fixtures: an in-memory website
// database, an ERP schema that runs on SQLite, and order builders.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// RequireEventually polls condition every interval and fails the test if it
// has not held by timeout. Used for background loops such as cron triggers.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	if condition() {
		return
	}
	require.Fail(t, "condition not met within "+timeout.String(), msgAndArgs...)
}
