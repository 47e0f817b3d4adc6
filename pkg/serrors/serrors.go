// =============================================================================
// ABN Bulk Lookup - Semantic Errors
// =============================================================================
//
// This package classifies the failures a lookup can run into. Every per-ABN
// failure is absorbed by the batch, but the kind is kept so logs and the
// single-lookup view can say *why* an ABN ended up on the missing list.
//
// ERROR TAXONOMY:
//   ErrTransport  - network error or non-200 HTTP status
//   ErrNoData     - nothing to parse (the fetch produced no body)
//   ErrMalformed  - the response is not well-formed XML
//   ErrNotFound   - the registry has no business entity for the ABN
//   ErrBadRequest - required input (ABN, API key) is missing
//
// =============================================================================

package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel).
func NewKind(name string) Kind { return kind{s: name} }

// =============================================================================
// KINDS
// =============================================================================

var (
	// ErrTransport indicates the request never produced a usable response.
	ErrTransport = NewKind("TRANSPORT")
	// ErrNoData indicates there was no response body to parse.
	ErrNoData = NewKind("NO_DATA")
	// ErrMalformed indicates the response body could not be decoded.
	ErrMalformed = NewKind("MALFORMED")
	// ErrNotFound indicates the registry returned no business entity.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrBadRequest indicates the caller left out required input.
	ErrBadRequest = NewKind("BAD_REQUEST")
)

// =============================================================================
// ERROR WRAPPER
// =============================================================================

// Error carries a kind, an optional wrapped cause and an optional message.
// errors.Is matches either the kind or anything in the cause chain.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error that wraps cause.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches against the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// Kind returns the semantic kind sentinel associated with this error.
func (e *Error) Kind() Kind { return e.kind }

// KindOf returns the kind carried anywhere in err's chain, or nil.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.kind
	}

	return nil
}

// KindName is KindOf rendered for log fields; unclassified errors are "UNKNOWN".
func KindName(err error) string {
	if k := KindOf(err); k != nil {
		return k.Error()
	}

	return "UNKNOWN"
}
