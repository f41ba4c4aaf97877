// Package errors classifies conversion errors so the command line can decide
// whether a run may continue and which exit status to report.
package errors

import (
	"errors"
	"fmt"
)

// Kind is the classification of a conversion error.
type Kind int

const (
	// KindUnknown is any error that was not classified.
	KindUnknown Kind = iota
	// KindConfiguration is an invalid grid description or option.
	KindConfiguration
	// KindSourceFormat is an unreadable or malformed SEG-Y file.
	KindSourceFormat
	// KindUnknownField is a candidate header field name with no definition.
	KindUnknownField
	// KindTargetWrite is a failure creating or writing the NetCDF file.
	KindTargetWrite
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSourceFormat:
		return "source format"
	case KindUnknownField:
		return "unknown field"
	case KindTargetWrite:
		return "target write"
	default:
		return "unknown"
	}
}

// Error wraps an error with its classification
type Error struct {
	Kind    Kind
	Op      string
	Err     error
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap classifies err as kind, recording the operation that failed. A nil
// error stays nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// New returns a classified error with a formatted message.
func New(kind Kind, op, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return err != nil && KindOf(err) == KindConfiguration
}

// IsUnknownField reports whether err signals an unknown header field.
func IsUnknownField(err error) bool {
	return err != nil && KindOf(err) == KindUnknownField
}

// IsFatal reports whether err must stop a conversion. Only unknown header
// fields are recoverable.
func IsFatal(err error) bool {
	return err != nil && KindOf(err) != KindUnknownField
}
