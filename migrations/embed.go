// Package migrations embeds the per-dialect SQL schema files.
package migrations

import "embed"

// FS holds sqlite/, postgres/ and mysql/ migration directories
//
//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS
