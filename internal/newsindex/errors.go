package newsindex

import "errors"

// Sentinel errors for the package's fault taxonomy. ErrInvalidInput and
// ErrResourceError are genuine faults; ErrNotFound and the rejection
// reasons in registry.go are expected, non-faulting business outcomes,
// returned alongside a zero value where the call site needs to
// distinguish "no such thing" from "invalid request".
var (
	// ErrInvalidInput: caller-supplied arguments violate preconditions.
	ErrInvalidInput = errors.New("newsindex: invalid input")
	// ErrResourceError: a supplied stop-word iterator failed.
	ErrResourceError = errors.New("newsindex: resource error")
	// ErrNotFound: the requested article id is out of range.
	ErrNotFound = errors.New("newsindex: not found")
	// ErrDuplicateURL names a case-insensitive URL repeat as an error value.
	// RegisterArticle does not return it; it reports the rejection as the
	// DuplicateURL RejectionReason.
	ErrDuplicateURL = errors.New("newsindex: duplicate url")
	// ErrDuplicateTitleServer names a repeat (server, title) pair as an
	// error value. RegisterArticle does not return it; it reports the
	// rejection as the DuplicateTitleServer RejectionReason.
	ErrDuplicateTitleServer = errors.New("newsindex: duplicate title on server")
)
