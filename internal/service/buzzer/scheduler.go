package buzzer

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Ringer is told when a bell is due. Device delivery lives behind it.
type Ringer interface {
	Ring(b Bell)
}

// LogRinger writes due bells to the log.
type LogRinger struct{}

func (LogRinger) Ring(b Bell) {
	slog.Info("buzzer: ring", "appointment_id", b.AppointmentID, "kind", b.Kind, "at", b.At)
}

type armedBell struct {
	timer *time.Timer
}

// Scheduler keeps one timer per pending bell, grouped by appointment. A bell
// leaves the set when it rings or is cancelled.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string][]*armedBell
	ringer Ringer
	now    func() time.Time
	after  func(d time.Duration, f func()) *time.Timer
}

func NewScheduler(r Ringer) *Scheduler {
	return &Scheduler{
		timers: make(map[string][]*armedBell),
		ringer: r,
		now:    time.Now,
		after:  time.AfterFunc,
	}
}

// Schedule arms timers for the bells still in the future and replaces any
// earlier plan for the same appointment. It returns how many were armed.
func (s *Scheduler) Schedule(appointmentID string, bells []Bell) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(appointmentID)
	now := s.now()
	var armed []*armedBell
	for _, b := range bells {
		d := b.At.Sub(now)
		if d <= 0 {
			continue
		}
		e := &armedBell{}
		e.timer = s.after(d, func() {
			if s.take(appointmentID, e) {
				s.ringer.Ring(b)
			}
		})
		armed = append(armed, e)
	}
	if len(armed) > 0 {
		s.timers[appointmentID] = armed
	}
	return len(armed)
}

// Cancel stops all pending bells of an appointment.
func (s *Scheduler) Cancel(appointmentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(appointmentID)
}

// Pending reports how many timers are armed for an appointment.
func (s *Scheduler) Pending(appointmentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers[appointmentID])
}

// Stop cancels every pending bell.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.timers {
		s.cancelLocked(id)
	}
}

// take removes a due bell and reports whether it was still pending. A bell
// cancelled or replaced after its timer fired is not rung.
func (s *Scheduler) take(appointmentID string, e *armedBell) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.timers[appointmentID]
	i := slices.Index(list, e)
	if i < 0 {
		return false
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(s.timers, appointmentID)
	} else {
		s.timers[appointmentID] = list
	}
	return true
}

func (s *Scheduler) cancelLocked(appointmentID string) {
	for _, e := range s.timers[appointmentID] {
		e.timer.Stop()
	}
	delete(s.timers, appointmentID)
}
