package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// EntityError reports a lookup or uniqueness failure for a keyed entity.
type EntityError struct {
	Entity string
	Key    string
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s '%s' %v", e.Entity, e.Key, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// NewNotFound builds an EntityError matching ErrNotFound.
func NewNotFound(entity, key string) error {
	return &EntityError{Entity: entity, Key: key, Err: ErrNotFound}
}

// NewAlreadyExists builds an EntityError matching ErrAlreadyExists.
func NewAlreadyExists(entity, key string) error {
	return &EntityError{Entity: entity, Key: key, Err: ErrAlreadyExists}
}
