package customer

import (
	"errors"
	"fmt"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrMissingName  = errors.New("customer name is required")
	ErrMissingPhone = errors.New("customer phone is required")
	ErrInvalidPhone = errors.New("phone number cannot be parsed")
	ErrDuplicate    = errors.New("customer already exists")
)

const (
	FieldPhone = "phone"
	FieldName  = "name"
)

// DuplicateError names the existing customer that collides and on which
// field. It matches ErrDuplicate with errors.Is.
type DuplicateError struct {
	Field    string
	Existing repo.Customer
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("a customer with this %s already exists: %s", e.Field, e.Existing.Name)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }
