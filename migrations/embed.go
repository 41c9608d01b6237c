// Package migrations embeds the schema migrations for every supported SQL dialect.
package migrations

import "embed"

// FS holds one directory per dialect: postgres and sqlite3.
//
//go:embed postgres/*.sql sqlite3/*.sql
var FS embed.FS
