package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors without parsing
// driver-specific failures.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrAlreadyExists: unique constraint rejected the write
// - ErrStaleState: record changed between read and commit
// - ErrUnavailable: store temporarily unreachable
//
// For bad input use pkg/domain-errors directly.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrStaleState    = errors.New("stale state")
	ErrUnavailable   = errors.New("unavailable")
)
