// Package migrations carries the embedded goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
