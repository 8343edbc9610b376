package models

import (
	"strconv"
	"time"
)

// Bounds on a rating and its feedback text.
const (
	MinRating         = 1
	MaxRating         = 5
	MinFeedbackLength = 10
	MaxFeedbackLength = 500
	MaxReviewNote     = 200
)

// RatingStatus is the moderation state of a rating.
type RatingStatus string

const (
	RatingPending  RatingStatus = "pending"
	RatingApproved RatingStatus = "approved"
	RatingRejected RatingStatus = "rejected"
)

// Valid reports whether s is a known rating status.
func (s RatingStatus) Valid() bool {
	return s == RatingPending || s == RatingApproved || s == RatingRejected
}

// Rating is a client's score for one subservice of a completed booking.
type Rating struct {
	ID           string       `bson:"id" json:"id"`
	BookingID    string       `bson:"booking" json:"booking"`
	UserID       string       `bson:"user" json:"user"`
	ProviderID   string       `bson:"serviceProvider" json:"serviceProvider"`
	SubserviceID string       `bson:"subservice" json:"subservice"`
	ServiceID    string       `bson:"service" json:"service"`
	Rating       int          `bson:"rating" json:"rating"`
	Feedback     string       `bson:"feedback" json:"feedback"`
	Status       RatingStatus `bson:"status" json:"status"`
	ReviewedBy   string       `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt   *time.Time   `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewNote   string       `bson:"reviewNote,omitempty" json:"reviewNote,omitempty"`
	Aggregated   bool         `bson:"aggregated" json:"aggregated"` // Folded into provider stats
	AggregatedAt *time.Time   `bson:"aggregatedAt,omitempty" json:"aggregatedAt,omitempty"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// StarCount is the number of approved ratings with a given value for one subservice.
type StarCount struct {
	SubserviceID string `bson:"subservice" json:"subservice"`
	Stars        int    `bson:"rating" json:"rating"`
	Count        int    `bson:"count" json:"count"`
}

// SubserviceRatingSummary aggregates approved ratings of one subservice.
type SubserviceRatingSummary struct {
	SubserviceID   string         `json:"subserviceId"`
	SubserviceName string         `json:"subserviceName,omitempty"`
	AverageRating  float64        `json:"averageRating"`
	TotalRatings   int            `json:"totalRatings"`
	Distribution   map[string]int `json:"ratingDistribution"`
}

// AggregationBacklog reports approved ratings not yet folded into provider stats.
type AggregationBacklog struct {
	Count   int64    `json:"count"`
	Ratings []Rating `json:"ratings"`
}

func starKey(stars int) string {
	return strconv.Itoa(stars)
}
