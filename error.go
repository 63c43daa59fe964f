package unistore

import (
	"errors"
	"fmt"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Kind classifies an error into the actionable taxonomy shared by every
// backend and layer.
type Kind uint

// ContextEntry is one (key, value) annotation appended to an error as it
// passes up through a layer.
type ContextEntry struct {
	Key   string
	Value string
}

// Error is the structured failure value crossing every boundary in the
// module: a kind, the operation which produced it, a message, an optional
// cause and an ordered stack of context annotations. Augmenting methods
// return a new value rather than mutating shared state, so concurrent
// holders of the same error never race.
type Error struct {
	kind    Kind
	op      Operation
	message string
	cause   error
	context []ContextEntry
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// KindUnexpected is a protocol or parsing anomaly: the backend
	// returned something outside its documented contract.
	KindUnexpected Kind = iota

	// KindUnsupported marks a verb or feature the backend or its
	// configuration does not implement.
	KindUnsupported

	// KindConfigInvalid marks bad builder input, detected at build time
	// and never at call time.
	KindConfigInvalid

	// KindInvalidInput marks malformed call input, such as a path which
	// escapes the root or a batch above the declared limit.
	KindInvalidInput

	// KindNotFound marks a missing object.
	KindNotFound

	// KindAlreadyExists marks a conflicting existing object.
	KindAlreadyExists

	// KindPermissionDenied marks an authorization failure.
	KindPermissionDenied

	// KindRateLimited marks a throttled call which may be retried.
	KindRateLimited

	// KindIO marks a transport-level failure.
	KindIO
)

var kindNames = map[Kind]string{
	KindUnexpected:       "Unexpected",
	KindUnsupported:      "Unsupported",
	KindConfigInvalid:    "ConfigInvalid",
	KindInvalidInput:     "InvalidInput",
	KindNotFound:         "NotFound",
	KindAlreadyExists:    "AlreadyExists",
	KindPermissionDenied: "PermissionDenied",
	KindRateLimited:      "RateLimited",
	KindIO:               "IO",
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewError returns an error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Errf returns an error of the given kind with a formatted message.
func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Kind returns the error classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Operation returns the verb or stream method which produced the error, or
// the empty operation when none was recorded yet.
func (e *Error) Operation() Operation {
	return e.op
}

// Message returns the originating human-readable message, without context.
func (e *Error) Message() string {
	return e.message
}

// Context returns the annotation stack in append order: the innermost
// layer's entries appear first.
func (e *Error) Context() []ContextEntry {
	return e.context
}

// Temporary reports whether the caller may retry the call.
func (e *Error) Temporary() bool {
	return e.kind == KindRateLimited
}

// WithOperation returns a copy of the error tagged with the operation. The
// first recorded operation wins: annotating layers never overwrite the tag
// set closer to the backend.
func (e *Error) WithOperation(op Operation) *Error {
	clone := e.clone()
	if clone.op == "" {
		clone.op = op
	}
	return clone
}

// WithContext returns a copy of the error with a (key, value) annotation
// appended to its context stack.
func (e *Error) WithContext(key, value string) *Error {
	clone := e.clone()
	clone.context = append(clone.context, ContextEntry{Key: key, Value: value})
	return clone
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	clone := e.clone()
	clone.cause = cause
	return clone
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Error renders the kind, operation, context trail, message and cause.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.kind.String())
	if e.op != "" {
		b.WriteString(" (op=")
		b.WriteString(string(e.op))
		b.WriteString(")")
	}
	if len(e.context) > 0 {
		b.WriteString(" {")
		for i, entry := range e.context {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(entry.Key)
			b.WriteString("=")
			b.WriteString(entry.Value)
		}
		b.WriteString("}")
	}
	if e.message != "" {
		b.WriteString(": ")
		b.WriteString(e.message)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC FUNCTIONS

// ErrorKind returns the kind of err, or KindUnexpected when err does not
// carry one.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindUnexpected
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind() == kind
	}
	return false
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// clone copies the error with its own context backing array, so appends
// from concurrent holders never alias.
func (e *Error) clone() *Error {
	clone := *e
	clone.context = make([]ContextEntry, len(e.context), len(e.context)+1)
	copy(clone.context, e.context)
	return &clone
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (k Kind) String() string {
	if name, exists := kindNames[k]; exists {
		return name
	}
	return "Unknown"
}
