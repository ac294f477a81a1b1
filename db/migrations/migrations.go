// Package migrations embeds the SQL schema so the precompute job and the
// migration CLI ship without a migrations directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
