package errs

import (
	"errors"
	"fmt"
)

// Kind tags the error taxonomy of the engine. Handlers map kinds to HTTP
// statuses; everything else is treated as an internal failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidParameter
	KindDataUnavailable
	KindInsufficientData
	KindModelFit
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindDataUnavailable:
		return "data_unavailable"
	case KindInsufficientData:
		return "insufficient_data"
	case KindModelFit:
		return "model_fit"
	default:
		return "unknown"
	}
}

// Error is a tagged domain error carrying the symbol it relates to.
type Error struct {
	Kind   Kind
	Symbol string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Symbol != "" {
		msg = fmt.Sprintf("%s (symbol=%s)", msg, e.Symbol)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// WithSymbol attaches symbol context.
func (e *Error) WithSymbol(symbol string) *Error {
	e.Symbol = symbol
	return e
}

// WithErr wraps an underlying cause.
func (e *Error) WithErr(err error) *Error {
	e.Err = err
	return e
}

func newError(kind Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// InvalidParameter reports an out-of-range request parameter.
func InvalidParameter(format string, a ...interface{}) *Error {
	return newError(KindInvalidParameter, format, a...)
}

// DataUnavailable reports empty or unreachable price history.
func DataUnavailable(format string, a ...interface{}) *Error {
	return newError(KindDataUnavailable, format, a...)
}

// InsufficientData reports a series too short for the requested model.
func InsufficientData(format string, a ...interface{}) *Error {
	return newError(KindInsufficientData, format, a...)
}

// ModelFit reports a numerical failure during model fitting.
func ModelFit(format string, a ...interface{}) *Error {
	return newError(KindModelFit, format, a...)
}

// KindOf extracts the domain kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return KindUnknown, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
