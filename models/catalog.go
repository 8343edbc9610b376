package models

import "time"

// Service is a top-level catalog entry, e.g. "AC Repair".
type Service struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Description     string    `bson:"description" json:"description"`
	Process         []string  `bson:"process,omitempty" json:"process,omitempty"`
	OriginalPrice   float64   `bson:"originalPrice" json:"originalPrice"`
	DiscountedPrice float64   `bson:"discountedPrice" json:"discountedPrice"`
	Duration        string    `bson:"duration,omitempty" json:"duration,omitempty"`
	Image           string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Subservice is a billable unit under a Service.
type Subservice struct {
	ID              string    `bson:"id" json:"id"`
	ServiceID       string    `bson:"serviceId" json:"serviceId"`
	Name            string    `bson:"name" json:"name"`
	Description     string    `bson:"description" json:"description"`
	Process         []string  `bson:"process,omitempty" json:"process,omitempty"`
	OriginalPrice   float64   `bson:"originalPrice" json:"originalPrice"`
	DiscountedPrice float64   `bson:"discountedPrice" json:"discountedPrice"`
	Duration        string    `bson:"duration,omitempty" json:"duration,omitempty"`
	Image           string    `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
