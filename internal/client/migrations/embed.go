// Package migrations embeds the SQL migrations for the client's local cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
