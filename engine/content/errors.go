package content

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups and decoding.
var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrEngineNotFound   = errors.New("engine not found")
	ErrUnknownGraphType = errors.New("unknown @type")
)

// LookupError wraps a not-found sentinel with the keys that were asked for.
type LookupError struct {
	Brand   string
	Code    string
	Wrapped error
}

func (e *LookupError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("lookup: %s (brand=%q)", e.Wrapped, e.Brand)
	}
	return fmt.Sprintf("lookup: %s (brand=%q, engine=%q)", e.Wrapped, e.Brand, e.Code)
}

func (e *LookupError) Unwrap() error { return e.Wrapped }

// NewLookupError creates a LookupError.
func NewLookupError(brand, code string, wrapped error) *LookupError {
	return &LookupError{Brand: brand, Code: code, Wrapped: wrapped}
}

// IsNotFound reports whether err is a brand or engine miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBrandNotFound) || errors.Is(err, ErrEngineNotFound)
}
