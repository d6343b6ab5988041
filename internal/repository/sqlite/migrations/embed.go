package migrations

import "embed"

// FS contains the embedded SQLite schema for the event archive.
//
//go:embed *.sql
var FS embed.FS
