package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalid wraps every validation failure so callers can match with errors.Is.
var ErrInvalid = errors.New("invalid record")

var validate = validator.New()

// NewID returns a random unique identity key. Records are created concurrently
// from multiple sessions, so sequential per-category codes are not safe.
func NewID() string {
	return uuid.NewString()
}
