package model

import (
	"errors"
	"fmt"
)

// StoreError is returned by task stores for transport, auth or lookup
// failures. Status follows HTTP codes; 0 means the request never completed.
type StoreError struct {
	Status  int
	Message string
}

func (e *StoreError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("store: %s", e.Message)
	}
	return fmt.Sprintf("store: %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err wraps a StoreError with the given status.
func IsStatus(err error, status int) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Status == status
}
