// Package migrations holds the SQL schema applied by golang-migrate.
package migrations

import "embed"

// FS contains every *.up.sql / *.down.sql file of the schema.
//
//go:embed *.sql
var FS embed.FS
