// Package schemas embeds the SQL migrations for the optional concept dictionary snapshot table.
package schemas

import "embed"

// Migrations holds the migration files, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
