package migrations

import "embed"

// Migrations holds the numbered golang-migrate files for the sqlite driver.
//
//go:embed *.sql
var Migrations embed.FS
