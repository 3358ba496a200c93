package invoice

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrInvalidPeriod = errors.New("invalid period")
)

// PersistenceError reports a failure of the ledger store. The message of the
// underlying error is surfaced as is.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps a store failure as a *PersistenceError. Nil and
// ErrNotFound pass through unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotFound) {
		return err
	}

	return &PersistenceError{Op: op, Err: err}
}
