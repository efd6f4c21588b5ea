package errs

import "fmt"

// BackendError carries whatever a storage implementation reported, tagged with the
// operation that failed. It matches ErrBackendFailure under errors.Is.
type BackendError struct {
	Op  string
	Err error
}

// Backend wraps err into a *BackendError; nil stays nil.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the backend's own error.
func (e *BackendError) Unwrap() error { return e.Err }

// Is reports kind membership.
func (e *BackendError) Is(target error) bool { return target == ErrBackendFailure }
