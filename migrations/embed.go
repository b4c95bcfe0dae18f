// Package migrations embeds the SQL schema applied to the postgres state driver.
package migrations

import "embed"

// Files holds every *.sql migration in this directory.
//
//go:embed *.sql
var Files embed.FS
