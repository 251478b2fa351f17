package appointment

import (
	"errors"
	"fmt"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

var (
	ErrNotFound      = errors.New("appointment not found")
	ErrInvalidPitch  = errors.New("unknown pitch")
	ErrInvalidSlot   = errors.New("time slot is not in the daily schedule")
	ErrInvalidDate   = errors.New("date must be formatted as DD.MM.YY")
	ErrMissingName   = errors.New("customer name is required")
	ErrInvalidStatus = errors.New("status must be booked or cancelled")
	ErrSlotTaken     = errors.New("slot already has a booked appointment")
)

// SlotTakenError carries the booking that already holds the slot. It matches
// ErrSlotTaken with errors.Is.
type SlotTakenError struct {
	Existing repo.Appointment
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("%s %s %s is already booked by %s",
		e.Existing.PitchID, e.Existing.DateString, e.Existing.TimeSlot, e.Existing.CustomerName)
}

func (e *SlotTakenError) Is(target error) bool { return target == ErrSlotTaken }
