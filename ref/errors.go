package ref

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// Sentinels matched by errors.Is against a *ParseError.
var (
	ErrTypeRef   = errors.New("malformed type reference")
	ErrMethodRef = errors.New("malformed method reference")
)

// ParseErrorKind says which grammar rejected the input.
type ParseErrorKind uint8

const (
	TypeRefKind ParseErrorKind = iota + 1
	MethodRefKind
)

func (k ParseErrorKind) sentinel() error {
	if k == MethodRefKind {
		return ErrMethodRef
	}
	return ErrTypeRef
}

// ParseError reports text that is not a well-formed reference.
type ParseError struct {
	Kind ParseErrorKind

	// Input is the complete string handed to the parser.
	Input string

	// Caller is the file:line that invoked the parser.
	Caller string

	// Err is the nested failure, if any: a rejected type argument or
	// a description of the malformed segment.
	Err error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("ref: %v %q", e.Kind.sentinel(), e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Caller != "" {
		msg += " (caller: " + e.Caller + ")"
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func typeError(input string, cause error) *ParseError {
	return &ParseError{Kind: TypeRefKind, Input: input, Err: cause}
}

func methodError(input string, cause error) *ParseError {
	return &ParseError{Kind: MethodRefKind, Input: input, Err: cause}
}

// withCaller stamps err with the location skip frames above the caller
// of withCaller. Nested errors keep an empty Caller.
func withCaller(err *ParseError, skip int) error {
	if _, file, line, ok := runtime.Caller(skip + 1); ok {
		err.Caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return err
}
