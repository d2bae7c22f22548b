// Package migrations embeds the schema for every supported SQL dialect.
// Each dialect lives in its own directory so that DDL differences stay
// out of the repository code, which only issues portable statements.
package migrations

import "embed"

// FS contains the embedded migrations, one directory per dialect.
//
//go:embed mysql/*.sql sqlite/*.sql
var FS embed.FS
