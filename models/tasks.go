package models

// Booking events published to the notification worker.
const (
	BookingEventAssigned    = "assigned"
	BookingEventCancelled   = "cancelled"
	BookingEventRescheduled = "rescheduled"
)

// RatingAggregatePayload asks the worker to fold an approved rating into provider stats.
type RatingAggregatePayload struct {
	RatingID string `json:"ratingId"`
}

// BookingEventPayload describes a booking change to notify the parties about.
type BookingEventPayload struct {
	BookingID  string `json:"bookingId"`
	UserID     string `json:"userId"`
	ProviderID string `json:"providerId,omitempty"`
	Event      string `json:"event"`
	Message    string `json:"message"`
}
