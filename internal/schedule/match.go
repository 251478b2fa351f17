package schedule

import (
	"slices"
	"time"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

// MonthIndex is the zero-based month of t, the form stored on subscriptions.
func MonthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

// Matches reports whether sub books a slot on venue day d: the rule is
// active, d's weekday is selected and the month is either unrestricted or
// selected.
func Matches(sub repo.Subscription, d time.Time) bool {
	if !sub.Active {
		return false
	}
	if !slices.Contains(sub.DaysOfWeek, int(d.Weekday())) {
		return false
	}
	return sub.IsGeneral() || slices.Contains(sub.Months, MonthIndex(d))
}

// Select returns the subscriptions from subs that match d, in their original
// order.
func Select(subs []repo.Subscription, d time.Time) []repo.Subscription {
	var out []repo.Subscription
	for _, s := range subs {
		if Matches(s, d) {
			out = append(out, s)
		}
	}
	return out
}
