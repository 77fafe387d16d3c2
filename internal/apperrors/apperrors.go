// Package apperrors defines the error taxonomy shared by the data pipeline
// and the prediction service. Every operation fails fast with a specific
// kind; callers decide whether to continue, log, or exit.
package apperrors

import (
	"errors"
	"fmt"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"
)

// Kind classifies a pipeline or serving failure.
type Kind string

const (
	// KindSchema indicates a required column is absent.
	KindSchema Kind = "schema"
	// KindTypeMismatch indicates a column's values do not match the
	// operation's numeric or string expectation.
	KindTypeMismatch Kind = "type_mismatch"
	// KindNullValue indicates a disallowed null in a required column.
	KindNullValue Kind = "null_value"
	// KindEmptyOrDuplicate indicates zero rows, or exact-duplicate rows
	// where uniqueness is required.
	KindEmptyOrDuplicate Kind = "empty_or_duplicate"
	// KindDuplicateKey indicates a pivot key collision.
	KindDuplicateKey Kind = "duplicate_key"
	// KindDegenerateScale indicates min == max during min-max scaling.
	KindDegenerateScale Kind = "degenerate_scale"
	// KindRange indicates a numeric parameter outside its valid domain.
	KindRange Kind = "range"
	// KindConnectivity indicates an unreachable storage or network port.
	KindConnectivity Kind = "connectivity"
)

// Error carries an errbuilder error plus the taxonomy kind.
type Error struct {
	*errbuilder.ErrBuilder
	Kind Kind
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// Schema reports a missing required column.
func Schema(format string, args ...interface{}) *Error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
	return &Error{ErrBuilder: builder, Kind: KindSchema}
}

// TypeMismatch reports a column whose values have the wrong type.
func TypeMismatch(format string, args ...interface{}) *Error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
	return &Error{ErrBuilder: builder, Kind: KindTypeMismatch}
}

// NullValue reports a disallowed null in a required column.
func NullValue(format string, args ...interface{}) *Error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
	return &Error{ErrBuilder: builder, Kind: KindNullValue}
}

// EmptyOrDuplicate reports an empty dataset or exact-duplicate rows.
func EmptyOrDuplicate(format string, args ...interface{}) *Error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf(format, args...))
	return &Error{ErrBuilder: builder, Kind: KindEmptyOrDuplicate}
}

// DuplicateKey reports a pivot key collision.
func DuplicateKey(format string, args ...interface{}) *Error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf(format, args...))
	return &Error{ErrBuilder: builder, Kind: KindDuplicateKey}
}

// DegenerateScale reports a zero-variance column during min-max scaling.
func DegenerateScale(format string, args ...interface{}) *Error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf(format, args...))
	return &Error{ErrBuilder: builder, Kind: KindDegenerateScale}
}

// Range reports a numeric parameter outside its valid domain.
func Range(format string, args ...interface{}) *Error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
	return &Error{ErrBuilder: builder, Kind: KindRange}
}

// Connectivity reports an unreachable storage or network port.
func Connectivity(msg string, cause error) *Error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(msg)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return &Error{ErrBuilder: builder, Kind: KindConnectivity}
}

// KindOf returns the taxonomy kind of err, or "" for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
