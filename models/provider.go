package models

import (
	"math"
	"strings"
	"time"
)

// ProviderStatus is the verification/operational state of a service provider.
type ProviderStatus string

const (
	ProviderVerificationPending ProviderStatus = "verification_pending"
	ProviderPending             ProviderStatus = "pending"
	ProviderActive              ProviderStatus = "active"
	ProviderInactive            ProviderStatus = "inactive"
	ProviderSuspended           ProviderStatus = "suspended"
)

// Valid reports whether s is a known provider status.
func (s ProviderStatus) Valid() bool {
	switch s {
	case ProviderVerificationPending, ProviderPending, ProviderActive, ProviderInactive, ProviderSuspended:
		return true
	}
	return false
}

// Identity document kinds accepted by document verification.
const (
	DocumentAadhaar = "aadhaarCard"
	DocumentPAN     = "panCard"
)

// Weekdays in the order availability is stored.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// WeekdayKey returns the availability key for t's weekday.
func WeekdayKey(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

type ProviderAddress struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
	Country string `bson:"country" json:"country"`
}

// IdentityDocument is an identity card with its uploaded image.
type IdentityDocument struct {
	Number        string `bson:"number" json:"number"`
	Image         string `bson:"image,omitempty" json:"image,omitempty"`
	ImagePublicID string `bson:"imagePublicId,omitempty" json:"-"`
	Verified      bool   `bson:"verified" json:"verified"`
}

type Photo struct {
	Image         string `bson:"image,omitempty" json:"image,omitempty"`
	ImagePublicID string `bson:"imagePublicId,omitempty" json:"-"`
}

// DayWindow is a provider's working window on one weekday. Times are "HH:MM".
type DayWindow struct {
	Start     string `bson:"start" json:"start"`
	End       string `bson:"end" json:"end"`
	Available bool   `bson:"available" json:"available"`
}

// Availability maps weekday keys ("monday".."sunday") to working windows.
type Availability map[string]DayWindow

// DefaultAvailability is every weekday from 09:00 to 18:00.
func DefaultAvailability() Availability {
	a := make(Availability, len(Weekdays))
	for _, d := range Weekdays {
		a[d] = DayWindow{Start: "09:00", End: "18:00", Available: true}
	}
	return a
}

// RatingStats is a provider's running rating aggregate.
type RatingStats struct {
	Average      float64        `bson:"average" json:"average"`
	TotalRatings int            `bson:"totalRatings" json:"totalRatings"`
	Distribution map[string]int `bson:"distribution" json:"distribution"` // Keys "1".."5"
}

// NewRatingStats returns empty stats with every star bucket present.
func NewRatingStats() RatingStats {
	return RatingStats{Distribution: EmptyDistribution()}
}

// EmptyDistribution returns a star distribution with all five buckets at zero.
func EmptyDistribution() map[string]int {
	return map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
}

// Add folds one rating into the stats and recomputes the average from the distribution.
func (r *RatingStats) Add(stars int) {
	r.AddCount(stars, 1)
}

// AddCount folds n ratings of the same value into the stats.
func (r *RatingStats) AddCount(stars, n int) {
	if r.Distribution == nil {
		r.Distribution = EmptyDistribution()
	}
	r.Distribution[starKey(stars)] += n
	r.recompute()
}

func (r *RatingStats) recompute() {
	sum, count := 0, 0
	for star := MinRating; star <= MaxRating; star++ {
		n := r.Distribution[starKey(star)]
		sum += star * n
		count += n
	}
	r.TotalRatings = count
	if count == 0 {
		r.Average = 0
		return
	}
	r.Average = RoundTo2(float64(sum) / float64(count))
}

// RoundTo2 rounds to two decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ServiceProvider is a professional assignable to bookings.
type ServiceProvider struct {
	ID              string           `bson:"id" json:"id"`
	Name            string           `bson:"name" json:"name"`
	Email           string           `bson:"email" json:"email"`
	PhoneNumber     string           `bson:"phoneNumber" json:"phoneNumber"`
	Services        []string         `bson:"services" json:"services"`
	Subservices     []string         `bson:"subservices" json:"subservices"`
	Address         ProviderAddress  `bson:"address" json:"address"`
	AadhaarCard     IdentityDocument `bson:"aadhaarCard" json:"aadhaarCard"`
	PanCard         IdentityDocument `bson:"panCard" json:"panCard"`
	PassportPhoto   Photo            `bson:"passportPhoto" json:"passportPhoto"`
	Specializations []string         `bson:"specializations,omitempty" json:"specializations,omitempty"`
	Experience      int              `bson:"experience" json:"experience"`
	ExperienceUnit  string           `bson:"experienceUnit" json:"experienceUnit"` // "months" or "years"
	Qualification   string           `bson:"qualification,omitempty" json:"qualification,omitempty"`
	Availability    Availability     `bson:"availability" json:"availability"`
	Status          ProviderStatus   `bson:"status" json:"status"`
	Rating          RatingStats      `bson:"rating" json:"rating"`
	Commission      float64          `bson:"commission" json:"commission"`
	CreatedBy       string           `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	VerifiedBy      string           `bson:"verifiedBy,omitempty" json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time       `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	Notes           string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// DocumentsVerified reports whether both identity documents are verified.
func (p *ServiceProvider) DocumentsVerified() bool {
	return p.AadhaarCard.Verified && p.PanCard.Verified
}

// RecomputeStatus sets status from the document flags.
func (p *ServiceProvider) RecomputeStatus() {
	if p.DocumentsVerified() {
		p.Status = ProviderActive
		return
	}
	p.Status = ProviderVerificationPending
}

// CanHandle reports whether the provider offers every listed service and subservice.
func (p *ServiceProvider) CanHandle(services, subservices []string) bool {
	return containsAll(p.Services, services) && containsAll(p.Subservices, subservices)
}

// IsAvailable reports whether the provider works on day at hhmm. Both bounds are inclusive.
func (p *ServiceProvider) IsAvailable(day, hhmm string) bool {
	w, ok := p.Availability[day]
	if !ok || !w.Available {
		return false
	}
	return hhmm >= w.Start && hhmm <= w.End
}
