package exports

import "errors"

// ============================================================================
// Standard Exports Engine Errors
// ============================================================================

// These errors provide a consistent way to indicate the failure categories of
// the exports engine. Callers should inspect them with errors.Is rather than
// matching on message text; all other failures (open, read, write, rename)
// are plain wrapped OS errors carrying the underlying message.
//
// Usage Pattern:
//
//	changed, err := rewriter.Rewrite(ctx, op)
//	if err != nil {
//	    if errors.Is(err, exports.ErrExportNotFound) {
//	        // nothing to remove; not a fault
//	    }
//	}

var (
	// ErrRegistryNotFound indicates the exports registry file does not exist
	// and the operation required it to (read-only access).
	//
	// A missing registry is not an error for write operations: the rewriter
	// creates it on first use.
	ErrRegistryNotFound = errors.New("exports registry not found")

	// ErrLockBusy indicates the registry lock is held by another process.
	//
	// Only returned when the rewriter is configured for non-blocking lock
	// acquisition; in blocking mode the rewriter waits for the lock instead.
	ErrLockBusy = errors.New("exports registry is locked by another process")

	// ErrMalformedEntry indicates a registry line could not be parsed,
	// typically because of unbalanced parentheses in a host group or an
	// unterminated quote in a path.
	//
	// A rewrite that hits a malformed line aborts without touching the
	// registry, so a corrupt file is never silently rewritten.
	ErrMalformedEntry = errors.New("malformed export entry")

	// ErrExportNotFound indicates a remove operation found no entry matching
	// the requested (path, client) pair.
	//
	// This is an expected outcome, not corruption: it lets callers
	// distinguish "successfully removed" from "nothing to remove". The
	// registry is left untouched.
	ErrExportNotFound = errors.New("export not found")

	// ErrReloadFailed indicates the external reload command failed after a
	// successful rewrite.
	//
	// The rewrite is already committed when this error is reported; it must
	// not be treated as reverting the registry change.
	ErrReloadFailed = errors.New("export reload failed")
)
