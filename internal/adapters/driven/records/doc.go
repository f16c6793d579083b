// Package records provides record sources that do not live in the ledger
// database: YAML snapshot files, and a rate-limiting decorator for any
// driven.RecordSource.
package records
