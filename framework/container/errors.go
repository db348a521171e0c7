package container

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ───────────────────────────────────────────────────────────

var (
	// ErrDuplicateName is returned when a name is already taken or unusable.
	ErrDuplicateName = errors.New("container: service name already registered")

	// ErrUnresolvedDependency is returned when a dependency name is unknown at
	// registration time.
	ErrUnresolvedDependency = errors.New("container: unresolved dependency")

	// ErrUnknownConstructionStrategy is returned when a service is neither a
	// function, an InstanceProvider, a value marked with AsValue, nor carries
	// the method named by WithMethod.
	ErrUnknownConstructionStrategy = errors.New("container: cannot find a construction strategy")

	// ErrServiceNotFound is returned by Get for unregistered names.
	ErrServiceNotFound = errors.New("container: service not found")

	// ErrInvalidKey is returned for name-based lookups with an empty name.
	ErrInvalidKey = errors.New("container: service name must be a non-empty string")

	// ErrCircularDependency is returned when a resolution pass revisits a
	// service it has not finished constructing.
	ErrCircularDependency = errors.New("container: circular dependency")

	// ErrArgumentMismatch is returned when the resolved arguments do not fit
	// the constructor or method signature.
	ErrArgumentMismatch = errors.New("container: argument mismatch")

	// ErrTypeMismatch is returned by Resolve when the instance is not a T.
	ErrTypeMismatch = errors.New("container: service type mismatch")
)

// ── ServiceError ──────────────────────────────────────────────────────────────

// ServiceError records the service and the operation that failed.
//
//	if errors.Is(err, container.ErrServiceNotFound) { ... }
//	var se *container.ServiceError
//	if errors.As(err, &se) { log.Print(se.Service) }
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %q: %s: %v", e.Service, e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func newServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{Service: service, Operation: operation, Err: err}
}

// detailf joins a sentinel with a formatted detail so errors.Is keeps matching
// the sentinel while the message carries the specifics.
func detailf(sentinel error, format string, args ...any) error {
	return errors.Join(sentinel, fmt.Errorf(format, args...))
}
