package exsplit

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat indicates the input is not a readable xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ParseError reports an input that could not be loaded as a table.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error in %q: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError wrapping ErrInvalidFormat.
func NewParseError(source string, err error) *ParseError {
	return &ParseError{
		Source: source,
		Err:    fmt.Errorf("%w: %v", ErrInvalidFormat, err),
	}
}

// InvalidParameterError reports a parameter rejected before processing.
type InvalidParameterError struct {
	Name   string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%q: %s", e.Name, e.Value, e.Reason)
}

// NewInvalidParameterError creates a new InvalidParameterError.
func NewInvalidParameterError(name, value, reason string) *InvalidParameterError {
	return &InvalidParameterError{
		Name:   name,
		Value:  value,
		Reason: reason,
	}
}

// ColumnNotFoundError reports a column missing from a loaded table.
type ColumnNotFoundError struct {
	Column string
	// Source is the file the table was loaded from, if known.
	Source string
}

func (e *ColumnNotFoundError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found in file %q", e.Column, e.Source)
}

// NewColumnNotFoundError creates a new ColumnNotFoundError.
func NewColumnNotFoundError(column, source string) *ColumnNotFoundError {
	return &ColumnNotFoundError{
		Column: column,
		Source: source,
	}
}
