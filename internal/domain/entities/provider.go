package entities

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Provider represents a consultation provider and their recurring weekly template.
// Profile fields are owned by an external profile service; the booking core
// treats them as read-only.
type Provider struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Speciality        string    `json:"speciality" db:"speciality"`
	Email             string    `json:"email" db:"email"`
	ConsultationStart string    `json:"consultation_start" db:"consultation_start"`
	ConsultationEnd   string    `json:"consultation_end" db:"consultation_end"`
	OffDays           string    `json:"off_days" db:"off_days"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// IsOffWeekday reports whether the given weekday is in the provider's
// recurring off-day list. OffDays is a comma-separated list of weekday
// names ("SUNDAY,SATURDAY"), compared case-insensitively.
func (p *Provider) IsOffWeekday(day time.Weekday) bool {
	if strings.TrimSpace(p.OffDays) == "" {
		return false
	}
	name := strings.ToUpper(day.String())
	for _, off := range strings.Split(p.OffDays, ",") {
		if strings.ToUpper(strings.TrimSpace(off)) == name {
			return true
		}
	}
	return false
}
