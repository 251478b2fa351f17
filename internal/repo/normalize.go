package repo

import (
	"encoding/json"
	"slices"
)

// subscriptionDoc is the stored shape of a subscription, including the
// single-value fields written by older clients.
type subscriptionDoc struct {
	Subscription
	DayOfWeek *int `json:"dayOfWeek,omitempty"`
	Month     *int `json:"month,omitempty"`
}

// DecodeSubscription reads a stored subscription and folds the legacy
// dayOfWeek/month fields into their set-valued counterparts.
func DecodeSubscription(data []byte) (Subscription, error) {
	var doc subscriptionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Subscription{}, err
	}
	return doc.normalize(), nil
}

func (d subscriptionDoc) normalize() Subscription {
	s := d.Subscription
	if len(s.DaysOfWeek) == 0 && d.DayOfWeek != nil {
		s.DaysOfWeek = []int{*d.DayOfWeek}
	}
	if len(s.Months) == 0 && d.Month != nil {
		s.Months = []int{*d.Month}
	}
	s.DaysOfWeek = NormalizeSet(s.DaysOfWeek)
	s.Months = NormalizeSet(s.Months)
	return s
}

// EncodeSubscription always writes the set form. The id lives outside the
// document body.
func EncodeSubscription(s Subscription) ([]byte, error) {
	s.ID = ""
	s.DaysOfWeek = NormalizeSet(s.DaysOfWeek)
	s.Months = NormalizeSet(s.Months)
	if s.DaysOfWeek == nil {
		s.DaysOfWeek = []int{}
	}
	return json.Marshal(s)
}

// NormalizeSet returns a sorted copy of xs without duplicates. Nil and empty
// input both yield nil.
func NormalizeSet(xs []int) []int {
	if len(xs) == 0 {
		return nil
	}
	out := slices.Clone(xs)
	slices.Sort(out)
	return slices.Compact(out)
}
