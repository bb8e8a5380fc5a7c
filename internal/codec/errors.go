package codec

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrExpectedMapping  = errors.New("expected a mapping node")
	ErrFieldMismatch    = errors.New("field mismatch")
	ErrUnknownTag       = errors.New("unknown tag")
	ErrUnexpectedRecord = errors.New("unexpected record type")
	ErrEmptyDocument    = errors.New("empty document")
	ErrUnsupportedType  = errors.New("unsupported type")
)

// LoadError reports where in the input a record failed to load.
type LoadError struct {
	Line   int
	Column int
	Err    error // one of the sentinel errors above
	Detail string
}

func (e *LoadError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("line %d, column %d: %v: %s", e.Line, e.Column, e.Err, e.Detail)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErrorf(n *yaml.Node, err error, format string, args ...any) *LoadError {
	return &LoadError{
		Line:   n.Line,
		Column: n.Column,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
