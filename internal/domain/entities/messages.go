package entities

// Queue message payloads. Dates travel as calendar strings (DateLayout) so
// consumers never depend on a timezone.

// BookingMessage is the payload of a BOOKING outbox entry.
type BookingMessage struct {
	ReservationID string `json:"reservation_id"`
	ProviderID    string `json:"provider_id"`
	ProviderName  string `json:"provider_name"`
	ProviderEmail string `json:"provider_email"`
	RequesterID   string `json:"requester_id"`
	Date          string `json:"date"`
	TimeLabel     string `json:"time_label"`
	SlotID        int    `json:"slot_id"`
}

// CancellationMessage is the payload of a CANCELLATION outbox entry,
// emitted for every reservation cancelled by a day-blocking cascade.
type CancellationMessage struct {
	ReservationID string `json:"reservation_id"`
	ProviderID    string `json:"provider_id"`
	ProviderName  string `json:"provider_name"`
	RequesterID   string `json:"requester_id"`
	Date          string `json:"date"`
	TimeLabel     string `json:"time_label"`
	Reason        string `json:"reason"`
}

// RegistrationMessage is the payload of a REGISTRATION outbox entry. The
// registration flow itself lives outside this service; the type is decoded
// here so the dispatcher can drain entries that flow produces.
type RegistrationMessage struct {
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
}
