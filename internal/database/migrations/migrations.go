// Package migrations встраивает SQL-схему, которую применяет golang-migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
