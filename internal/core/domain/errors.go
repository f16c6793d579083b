package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Public operations reject it before any work begins.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates the record store could not be reached.
	// The whole scan fails and nothing is written.
	ErrSourceUnavailable = errors.New("record source unavailable")

	// ErrScanFailed indicates the write step of a scan failed or the run
	// exceeded its time budget. Writes are rolled back.
	ErrScanFailed = errors.New("scan failed")

	// ErrScanInProgress indicates another scan holds the scan lock.
	ErrScanInProgress = errors.New("scan in progress")
)
