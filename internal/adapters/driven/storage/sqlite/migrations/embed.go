// Package migrations holds the schema for the hygiene ledger database.
//
// 001 creates the issue ledger, scan runs and scheduler tables.
// 002 adds the record tables read by the sqlite record source.
package migrations

import "embed"

// FS is applied in filename order by sqlite.Store on open.
//
//go:embed *.sql
var FS embed.FS
