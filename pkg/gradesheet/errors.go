package gradesheet

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidOptions indicates the export options did not validate.
var ErrInvalidOptions = errors.New("invalid export options")

// ErrTooManyColumns indicates the rubric needs more columns than a sheet holds.
var ErrTooManyColumns = errors.New("too many columns for one sheet")

// OptionsError carries the validation failure of Options.
type OptionsError struct {
	Err error
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidOptions, e.Err)
}

func (e *OptionsError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidOptions) match.
func (e *OptionsError) Is(target error) bool {
	return target == ErrInvalidOptions
}

// ExportError represents a failure while producing the workbook. No partial
// output accompanies it.
type ExportError struct {
	Sheet string
	Stage string // "layout", "sheets", "cells", "styles", "merges", "links", "serialize"
	Err   error
}

func (e *ExportError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("export error (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("export error in sheet %q (%s): %v", e.Sheet, e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError.
func NewExportError(sheet, stage string, err error) *ExportError {
	return &ExportError{
		Sheet: sheet,
		Stage: stage,
		Err:   err,
	}
}
