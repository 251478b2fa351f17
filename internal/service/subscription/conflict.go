package subscription

import (
	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

// Conflicts returns the first subscription in existing that collides with
// candidate, skipping the one with id excludeID. Two rules collide when they
// share pitch and slot, the existing one is active, their weekdays intersect
// and their months overlap. An empty month set is a wildcard.
func Conflicts(candidate repo.Subscription, existing []repo.Subscription, excludeID string) (repo.Subscription, bool) {
	for _, s := range existing {
		if s.ID == excludeID && excludeID != "" {
			continue
		}
		if !s.Active || s.PitchID != candidate.PitchID || s.TimeSlot != candidate.TimeSlot {
			continue
		}
		if !intersects(s.DaysOfWeek, candidate.DaysOfWeek) {
			continue
		}
		if monthsOverlap(s.Months, candidate.Months) {
			return s, true
		}
	}
	return repo.Subscription{}, false
}

func monthsOverlap(a, b []int) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	return intersects(a, b)
}

func intersects(a, b []int) bool {
	seen := make(map[int]struct{}, len(a))
	for _, x := range a {
		seen[x] = struct{}{}
	}
	for _, y := range b {
		if _, ok := seen[y]; ok {
			return true
		}
	}
	return false
}
