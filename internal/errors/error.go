// Package errors defines the error taxonomy shared by the client and the backend.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProductNotFound is returned by backend stores for an unknown id.
var ErrProductNotFound = errors.New("product not found")

// FieldError is one rejected field of a draft.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError rejects a submission locally. Fields keep the form order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Map returns the field messages keyed by field name.
func (e *ValidationError) Map() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Message
	}
	return m
}

// Message returns the message for field, or "" when the field was accepted.
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError means the backend answered with a non-2xx status, or with a 2xx
// payload that could not be decoded (Status is then the received status and Err is set).
type RemoteError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected response (status %d): %v", e.Op, e.Status, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("%s: remote store responded with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: remote store responded with status %d: %s", e.Op, e.Status, e.Body)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is lets a 404 from the remote store match ErrProductNotFound.
func (e *RemoteError) Is(target error) bool {
	return target == ErrProductNotFound && e.Status == 404
}

// StateError reports a product the local state cannot accept. Reason defaults to
// the id being unknown to the mirror.
type StateError struct {
	Op     string
	ID     int64
	Reason string
}

func (e *StateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: product %d %s", e.Op, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s: product %d is not in the local mirror", e.Op, e.ID)
}
