package subscription

import (
	"errors"
	"fmt"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

var (
	ErrNotFound         = errors.New("subscription not found")
	ErrInvalidPitch     = errors.New("unknown pitch")
	ErrInvalidSlot      = errors.New("time slot is not in the daily schedule")
	ErrInvalidDay       = errors.New("weekdays must be between 0 (Sunday) and 6")
	ErrInvalidMonth     = errors.New("months must be between 0 and 11")
	ErrEmptyDays        = errors.New("subscription has no weekdays left; delete it instead")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrConflict         = errors.New("subscription conflicts with an existing one")
)

// ConflictError carries the active subscription that already holds the
// pitch and slot. It matches ErrConflict with errors.Is.
type ConflictError struct {
	Existing repo.Subscription
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s is already subscribed by %s",
		e.Existing.PitchID, e.Existing.TimeSlot, e.Existing.CustomerName)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
