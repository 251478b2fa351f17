// Package buzzer plans and fires the pitch bells for a booked hour: one at
// kick-off, a warning shortly before the end and one at the end.
package buzzer

import (
	"time"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
)

type Kind string

const (
	KindStart   Kind = "start"
	KindWarning Kind = "warning"
	KindEnd     Kind = "end"
)

// MatchLength is the length of one booked slot.
const MatchLength = time.Hour

type Settings struct {
	StartEnabled   bool
	WarningEnabled bool
	EndEnabled     bool
	WarningLead    time.Duration
}

type Bell struct {
	AppointmentID string    `json:"appointmentId"`
	Kind          Kind      `json:"kind"`
	At            time.Time `json:"at"`
}

// Plan returns the bells for a, in firing order. The warning bell is dropped
// once its time has passed at now; start and end bells are always planned.
// Invalid dates or slots yield no bells.
func Plan(a repo.Appointment, st Settings, loc *time.Location, now time.Time) []Bell {
	day, err := schedule.ParseDate(a.DateString, loc)
	if err != nil {
		return nil
	}
	start, ok := schedule.SlotStart(day, a.TimeSlot)
	if !ok {
		return nil
	}
	end := start.Add(MatchLength)

	var bells []Bell
	if st.StartEnabled {
		bells = append(bells, Bell{AppointmentID: a.ID, Kind: KindStart, At: start})
	}
	if st.WarningEnabled {
		lead := st.WarningLead
		if lead <= 0 {
			lead = 5 * time.Minute
		}
		if warn := end.Add(-lead); warn.After(now) {
			bells = append(bells, Bell{AppointmentID: a.ID, Kind: KindWarning, At: warn})
		}
	}
	if st.EndEnabled {
		bells = append(bells, Bell{AppointmentID: a.ID, Kind: KindEnd, At: end})
	}
	return bells
}
