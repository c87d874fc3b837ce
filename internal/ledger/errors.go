package ledger

import "errors"

var (
	// ErrNotFound means the referenced account or transaction does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidArgument means the input failed validation before any write.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflictRetryable means the atomic write was aborted by a concurrent
	// conflicting write. The ledger retries these internally a bounded number
	// of times before surfacing.
	ErrConflictRetryable = errors.New("storage conflict")

	// ErrStorageUnavailable means the persistence layer failed for the
	// current request.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
