package errs

import (
	"errors"
	"fmt"
)

// Sentinel targets for errors.Is checks. Concrete errors below match them
// through their Is methods, so callers can branch on the category without
// losing the offending identifier carried by the concrete type.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrUnavailable    = errors.New("remote service unavailable")
	ErrPersistence    = errors.New("persistence failure")
)

// InvalidRequestError reports malformed input rejected before any remote
// call or persistence work.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// NotFoundError reports a missing entity. Resource names the entity kind
// ("order", "user", "product") so the transport can emit a distinct code.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnavailableError reports that a remote dependency could not be reached:
// network failure, timeout, 5xx, or an open circuit breaker.
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a storage failure. The driver error stays inside
// for logs; it must never reach a response body.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
