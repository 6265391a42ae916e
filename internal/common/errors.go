package common

import (
	"errors"
	"fmt"
)

// Error kinds. Services wrap their failures with one of these and the HTTP
// layer maps the kind to a status code; callers match with errors.Is.
var (
	ErrorNotFound     = errors.New("not found")
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorUpstream     = errors.New("upstream error")
	ErrorInternal     = errors.New("internal error")
)

// Wrap tags err with kind. A nil err stays nil.
func Wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}
