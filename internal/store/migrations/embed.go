// Package migrations embeds the SQLite schema migrations.
// Files are named NNN_name.sql and applied in version order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
