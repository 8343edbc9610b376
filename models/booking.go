package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// bookingTransitions lists the states reachable from each state.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCompleted, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Active reports whether the booking still ties up its provider.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveBookingStatuses are the statuses that block provider deletion.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// Booking is a client's scheduled request for one or more services.
type Booking struct {
	ID                 string        `bson:"id" json:"id"`
	UserID             string        `bson:"userId" json:"userId"`
	Services           []string      `bson:"services" json:"services"`
	Subservices        []string      `bson:"subservices" json:"subservices"`
	AddressID          string        `bson:"addressId" json:"addressId"`
	ProviderID         string        `bson:"serviceProviderId,omitempty" json:"serviceProviderId,omitempty"`
	Date               time.Time     `bson:"date" json:"date"` // Midnight of the booked day in the configured timezone
	Time               string        `bson:"time" json:"time"` // "HH:MM"
	Status             BookingStatus `bson:"status" json:"status"`
	Discount           float64       `bson:"discount" json:"discount"`
	FinalPrice         float64       `bson:"finalPrice" json:"finalPrice"`
	AssignedAt         *time.Time    `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	AssignedBy         string        `bson:"assignedBy,omitempty" json:"assignedBy,omitempty"`
	CancellationReason string        `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time    `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt          time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// HasSubservice reports whether the booking includes the given subservice.
func (b *Booking) HasSubservice(id string) bool {
	return containsString(b.Subservices, id)
}

// BookingStatusCount is one row of a per-status booking breakdown.
type BookingStatusCount struct {
	Status BookingStatus `bson:"_id" json:"status"`
	Count  int64         `bson:"count" json:"count"`
}

// ProviderStats summarises a provider's booking history.
type ProviderStats struct {
	ProviderID    string                  `json:"providerId"`
	TotalBookings int64                   `json:"totalBookings"`
	ByStatus      map[BookingStatus]int64 `json:"byStatus"`
	Earnings      float64                 `json:"earnings"` // Sum of finalPrice over completed bookings
	Rating        RatingStats             `json:"rating"`
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// containsAll reports whether every element of want is present in have.
func containsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
