package schema

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrEmptyTable    = errors.New("empty table")
)

// MissingColumnError reports a column the schema requires but the source
// did not return.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s: missing column %q", e.Table, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// TypeMismatchError reports a value that cannot be coerced to the column type.
// Row is 1-based.
type TypeMismatchError struct {
	Table  string
	Column string
	Row    int
	Value  interface{}
	Want   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("table %s row %d: column %q: cannot use %v (%T) as %s",
		e.Table, e.Row, e.Column, e.Value, e.Value, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// EmptyTableError reports a source table without rows
type EmptyTableError struct {
	Table string
}

func (e *EmptyTableError) Error() string {
	return fmt.Sprintf("table %s: no rows", e.Table)
}

func (e *EmptyTableError) Is(target error) bool {
	return target == ErrEmptyTable
}
