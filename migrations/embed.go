// Package migrations embeds the SQL migrations of the local database so the
// migrate binary works without a checkout next to it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
