// Package schedule holds the venue's fixed calendar vocabulary: the daily
// slot list, the DD.MM.YY date format, sync periods and rule matching.
package schedule

import (
	"slices"
	"time"
)

// Slots is the daily schedule in booking order. 00.00 is the last slot of a
// venue day and starts at midnight after the date it is booked on.
var Slots = []string{
	"14.00", "15.00", "16.00", "17.00", "18.00", "19.00",
	"20.00", "21.00", "22.00", "23.00", "00.00",
}

// SlotsPerDay is the number of bookable hours per pitch per day.
var SlotsPerDay = len(Slots)

func IsSlot(label string) bool {
	return slices.Contains(Slots, label)
}

// SlotIndex returns the position of label in Slots, or -1.
func SlotIndex(label string) int {
	return slices.Index(Slots, label)
}

// SlotStart returns the instant a slot begins on the venue day d.
func SlotStart(d time.Time, label string) (time.Time, bool) {
	if !IsSlot(label) {
		return time.Time{}, false
	}
	hour := int(label[0]-'0')*10 + int(label[1]-'0')
	day := DayStart(d)
	if hour == 0 {
		day = day.AddDate(0, 0, 1)
	}
	return day.Add(time.Duration(hour) * time.Hour), true
}

// DayStart truncates t to midnight in t's location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
