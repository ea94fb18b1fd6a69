// Package migrations embeds the SQL migration files for the knowledge base.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
