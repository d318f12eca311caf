package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveSession is returned when no contact is identified for the session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrFacetStore matches every FacetStoreError.
	ErrFacetStore = errors.New("facet store error")
)

// FacetStoreError wraps a facet store failure during a profile read or write.
type FacetStoreError struct {
	Op  string
	Err error
}

func (e *FacetStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FacetStoreError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFacetStore) hold for any FacetStoreError.
func (e *FacetStoreError) Is(target error) bool {
	return target == ErrFacetStore
}

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FacetStoreError{Op: op, Err: err}
}
