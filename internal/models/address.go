package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingAddress holds the postal and contact fields shared by saved
// addresses and order snapshots.
type ShippingAddress struct {
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
	Email       string `bson:"email" json:"email"`
	Phone       string `bson:"phone" json:"phone"`
	Street      string `bson:"street" json:"street"`
	City        string `bson:"city" json:"city"`
	State       string `bson:"state" json:"state"`
	ZipCode     string `bson:"zipCode" json:"zipCode"`
	Country     string `bson:"country" json:"country"`
	CountryCode string `bson:"countryCode" json:"countryCode"`
}

// Address is a saved shipping address owned by a user.
type Address struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ShippingAddress `bson:",inline"`
	IsDefault       bool      `bson:"isDefault" json:"isDefault"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
