// Package migrations embeds the snapshot schema.
package migrations

import "embed"

// FS holds the embedded SQL migrations for the snapshot stores.
//
//go:embed *.sql
var FS embed.FS
