package huddle

import (
	"fmt"

	"github.com/pkg/errors"
)

// InputError is a validation failure: a malformed or semantically
// invalid request that leaves state unchanged.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// AccessError is an authorization failure: an unverifiable identity
// or a verified identity lacking the required role or relationship.
type AccessError struct {
	Reason string
}

func (e *AccessError) Error() string {
	return e.Reason
}

// Inputf builds an InputError with a formatted reason.
func Inputf(format string, args ...interface{}) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// Accessf builds an AccessError with a formatted reason.
func Accessf(format string, args ...interface{}) error {
	return &AccessError{Reason: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is an InputError, unwrapping
// any pkg/errors wrapping first.
func IsInputError(err error) bool {
	_, ok := errors.Cause(err).(*InputError)
	return ok
}

// IsAccessError reports whether err is an AccessError, unwrapping
// any pkg/errors wrapping first.
func IsAccessError(err error) bool {
	_, ok := errors.Cause(err).(*AccessError)
	return ok
}
