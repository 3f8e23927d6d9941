package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotDurationMinutes is the fixed length of every consultation slot.
const SlotDurationMinutes = 20

// Session buckets within a consultation day.
const (
	SessionMorning   = "Morning"
	SessionAfternoon = "Afternoon"
	SessionEvening   = "Evening"
)

// Slot is a computed bookable interval within a provider's consultation
// window. Slots are never persisted: for a given template the sequence is a
// pure function of the start/end times, so slot IDs stay stable between the
// availability read and the booking write without a stored sequence.
type Slot struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Session   string `json:"session"`
}

// GenerateSlots expands a consultation window ("HH:MM" inclusive start,
// exclusive end) into fixed-length slots numbered from 1 in chronological
// order. A missing or inverted window yields no slots rather than an error:
// a provider without configured hours simply has nothing to book.
func GenerateSlots(startTime, endTime string) []Slot {
	startMinutes, okStart := parseClock(startTime)
	endMinutes, okEnd := parseClock(endTime)
	if !okStart || !okEnd || endMinutes <= startMinutes {
		return nil
	}

	var slots []Slot
	sessionCounters := map[string]int{}
	id := 1

	for cur := startMinutes; cur+SlotDurationMinutes <= endMinutes; cur += SlotDurationMinutes {
		session := sessionFor(cur / 60)
		sessionCounters[session]++

		slots = append(slots, Slot{
			ID:        id,
			Name:      fmt.Sprintf("%s Slot %d", session, sessionCounters[session]),
			StartTime: formatClock(cur),
			EndTime:   formatClock(cur + SlotDurationMinutes),
			Session:   session,
		})
		id++
	}

	return slots
}

func sessionFor(hour int) string {
	switch {
	case hour < 12:
		return SessionMorning
	case hour < 17:
		return SessionAfternoon
	default:
		return SessionEvening
	}
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// formatClock renders minutes since midnight as a 12-hour label ("09:20 AM").
func formatClock(minutes int) string {
	hour := minutes / 60
	minute := minutes % 60

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour12, minute, period)
}
