package entities

import (
	"time"
)

// Day status labels, in precedence order: a past date reports "past" even
// when it is also blocked or fully booked.
const (
	DayStatusPast      = "past"
	DayStatusOff       = "off"
	DayStatusFull      = "full"
	DayStatusPartial   = "partial"
	DayStatusAvailable = "available"
)

// DayStatus is one day of a provider's month calendar.
type DayStatus struct {
	Date           string `json:"date"`
	Status         string `json:"status"`
	BookedCount    int    `json:"booked_count"`
	AvailableCount int    `json:"available_count"`
	IsToday        bool   `json:"is_today"`
	DayName        string `json:"day_name"`
}

// ProviderSummary is one row of the cross-provider discovery list: a
// provider together with the first date on which they still have an open
// slot.
type ProviderSummary struct {
	Provider          *Provider `json:"provider"`
	NextAvailableDate time.Time `json:"next_available_date"`
	AvailableSlots    int       `json:"available_slots,omitempty"`
}
