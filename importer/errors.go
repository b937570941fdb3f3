package importer

import (
	"fmt"
)

// LoadError reports an input that is not a readable spreadsheet container.
// It aborts the whole run.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load spreadsheet %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SheetProcessingError is local to one sheet. The sheet is left out of the
// combined dataset and the run continues.
type SheetProcessingError struct {
	Sheet  string
	Reason string
	Err    error
}

func (e *SheetProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("process sheet %q: %s: %v", e.Sheet, e.Reason, e.Err)
	}
	return fmt.Sprintf("process sheet %q: %s", e.Sheet, e.Reason)
}

func (e *SheetProcessingError) Unwrap() error {
	return e.Err
}

// NumericCoercionError is raised for a numeric cell that is still not a
// number after cleanup. Row is the zero-based position in the combined table.
type NumericCoercionError struct {
	Column string
	Row    int
	Client string
	Value  string
	Err    error
}

func (e *NumericCoercionError) Error() string {
	return fmt.Sprintf("column %q row %d (client %q): value %q is not numeric", e.Column, e.Row, e.Client, e.Value)
}

func (e *NumericCoercionError) Unwrap() error {
	return e.Err
}

// MissingColumnWarning notes an expected column that is absent from the
// combined dataset. Processing that depends on it is skipped.
type MissingColumnWarning struct {
	Column string
	Step   string
}

func (w MissingColumnWarning) String() string {
	return fmt.Sprintf("column %q not found in combined dataset; %s skipped", w.Column, w.Step)
}
