package report

import "fmt"

// The translator never lets a failure escape as a Go error across its API
// boundary; every failure becomes one of the error kinds below, attached to a
// Diagnostic and deposited in the metadata store.

// SourceError is a general error in the compiled source.
type SourceError struct {
	Message string
}

func (e SourceError) Error() string {
	return e.Message
}

// SourceErrorf formats a new SourceError.
func SourceErrorf(format string, args ...interface{}) SourceError {
	return SourceError{Message: fmt.Sprintf(format, args...)}
}

// TypeNotFound reports a type missing from the metadata.
type TypeNotFound struct {
	Type string
}

func (e TypeNotFound) Error() string {
	return fmt.Sprintf("type not found in JavaScript compilation: %s", e.Type)
}

// MemberNotFound reports a member missing from a type's metadata.
type MemberNotFound struct {
	Type   string
	Member string
}

func (e MemberNotFound) Error() string {
	return fmt.Sprintf("member not found in JavaScript compilation: %s.%s", e.Type, e.Member)
}

// MacroError reports a failure raised by a user macro.
type MacroError struct {
	Macro   string
	Message string
}

func (e MacroError) Error() string {
	return fmt.Sprintf("error in macro %s: %s", e.Macro, e.Message)
}

// GeneratorError reports a failure raised by a user code generator.
type GeneratorError struct {
	Generator string
	Message   string
}

func (e GeneratorError) Error() string {
	return fmt.Sprintf("error in generator %s: %s", e.Generator, e.Message)
}

// -----------------------------------------------------------------------------

// Diagnostic is a single error or warning produced during translation.  The
// span may be nil when no position information is available.
type Diagnostic struct {
	Span    *TextSpan
	Err     error
	Message string
	IsError bool
}

// NewError creates an error diagnostic from an error kind.
func NewError(span *TextSpan, err error) Diagnostic {
	return Diagnostic{Span: span, Err: err, Message: err.Error(), IsError: true}
}

// NewWarning creates a warning diagnostic.
func NewWarning(span *TextSpan, msg string) Diagnostic {
	return Diagnostic{Span: span, Message: msg}
}
