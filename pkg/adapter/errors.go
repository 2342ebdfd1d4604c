package adapter

import (
	"errors"
	"fmt"
)

// BackendError is a statement the database rejected, carrying the backend's own message.
type BackendError struct {
	Message string
	Code    string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BackendMessage returns the database's message for err when one is available,
// otherwise err.Error().
func BackendMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
