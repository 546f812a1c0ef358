// Package migrations embeds the event log schema.
package migrations

import "embed"

// FS holds the embedded SQL migrations for the event log store.
//
//go:embed *.sql
var FS embed.FS
