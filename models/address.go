package models

import "time"

// Address is a client's service location.
type Address struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	HouseNo     string    `bson:"houseNo" json:"houseNo"`
	Street      string    `bson:"street" json:"street"`
	FullAddress string    `bson:"fullAddress" json:"fullAddress"`
	Landmark    string    `bson:"landmark,omitempty" json:"landmark,omitempty"`
	City        string    `bson:"city" json:"city"`
	State       string    `bson:"state" json:"state"`
	Zip         string    `bson:"zip" json:"zip"`
	Country     string    `bson:"country" json:"country"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
