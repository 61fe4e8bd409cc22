package apperrors

import "errors"

// Store lifecycle errors describe the state of the in-memory fund store.
var (
	// ErrNotInitialized indicates a query arrived before the first successful
	// snapshot load. Fatal to the calling request only, never to the process.
	ErrNotInitialized = errors.New("fund store not initialized")

	// ErrDataSourceUnavailable indicates the snapshot file is missing or
	// unreadable. A failed load leaves the previously loaded snapshot (if any)
	// in place and servable.
	ErrDataSourceUnavailable = errors.New("snapshot data source unavailable")

	// ErrInvalidSnapshotHeader indicates the snapshot CSV header does not match
	// the expected column contract.
	ErrInvalidSnapshotHeader = errors.New("invalid snapshot CSV header")
)

// Lookup errors represent valid queries that matched nothing.
var (
	// ErrFundNotFound indicates that no fund with the given symbol exists in
	// the current snapshot.
	ErrFundNotFound = errors.New("fund not found")

	// ErrNavHistoryNotFound indicates that no NAV time series exists for the
	// given symbol. Callers should treat this as "no history", not a fault.
	ErrNavHistoryNotFound = errors.New("nav history not found")
)

// Collaborator errors represent failures of the external data sources the
// dashboard reads from. None of them are fatal to the request path: quote
// lookups fall back to the last known value and history reads are bounded.
var (
	// ErrNavHistoryTimeout indicates a NAV history read exceeded its deadline.
	ErrNavHistoryTimeout = errors.New("nav history read timed out")

	// ErrQuoteUnavailable indicates no live or cached quote exists for a symbol.
	ErrQuoteUnavailable = errors.New("market quote unavailable")

	// ErrMissingAPIKey indicates the SEC subscription key is not configured.
	ErrMissingAPIKey = errors.New("SEC API subscription key not configured")
)
