package catcode

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCode matches every *MalformedCodeError via errors.Is.
	ErrMalformedCode = errors.New("malformed code")

	// ErrBuilderState matches every *BuilderStateError via errors.Is.
	ErrBuilderState = errors.New("illegal builder state")
)

// MalformedCodeError reports text that does not have the shape of a code
// token. Text is the offending input, unmodified.
type MalformedCodeError struct {
	Text   string
	Reason string
}

func (e *MalformedCodeError) Error() string {
	return fmt.Sprintf("malformed code %q: %s", e.Text, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedCode) succeed.
func (e *MalformedCodeError) Is(target error) bool {
	return target == ErrMalformedCode
}

func malformed(text, format string, args ...any) error {
	return &MalformedCodeError{Text: text, Reason: fmt.Sprintf(format, args...)}
}

// Must returns v and panics if err is not nil. It suits constructors called
// with constant arguments:
//
//	shake := catcode.Must(catcode.Standard().Empty("shake"))
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// BuilderStateError reports a builder call made out of sequence, such as a
// value supplied without first selecting a key.
type BuilderStateError struct {
	Key    string
	Reason string
}

func (e *BuilderStateError) Error() string {
	if e.Key == "" {
		return "illegal builder state: " + e.Reason
	}
	return fmt.Sprintf("illegal builder state at key %q: %s", e.Key, e.Reason)
}

// Is lets errors.Is(err, ErrBuilderState) succeed.
func (e *BuilderStateError) Is(target error) bool {
	return target == ErrBuilderState
}

// ScanError is returned by a strict Tokenizer. It locates the first head
// that does not start a well-formed code.
type ScanError struct {
	Start Position
	Err   *MalformedCodeError
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("malformed code at line %d, column %d: %s", e.Start.Line, e.Start.Col, e.Err.Reason)
}

func (e *ScanError) Unwrap() error { return e.Err }
