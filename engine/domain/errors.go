package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidYears     = errors.New("unparseable years")
	ErrYearOutOfRange   = errors.New("year outside supported window")
	ErrUnsupportedMake  = errors.New("unknown make")
	ErrUnsupportedModel = errors.New("unknown model for make")
)

// FieldError names the compatible-models column that failed and its raw text.
type FieldError struct {
	Column string
	Text   string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Column, e.Text, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldError(column, text string, err error) error {
	return &FieldError{Column: column, Text: text, Err: err}
}
