package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoCategory  = errors.New("please select or create a category first")
	ErrRunNotFound = errors.New("bulk upload run not found")
)

// ValidationError is returned for input rejected before any I/O
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ServiceError wraps a failed call to an external collaborator
type ServiceError struct {
	Service string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// EncodingError is returned when the final card image cannot be encoded
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode card image: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
