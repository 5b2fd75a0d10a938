// Package migrations embeds the goose SQL migrations so the loader binary
// and the test helpers apply the same schema without a checkout on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
