package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStatus is the lifecycle state of a listed event
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event represents a vendor's listed event
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID     string             `bson:"eventId" json:"id"`
	VendorID    string             `bson:"vendorId" json:"vendorId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Status      EventStatus        `bson:"status" json:"status"`
	Date        time.Time          `bson:"date" json:"date"`
	Venue       string             `bson:"venue" json:"venue"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	TotalSeats  int                `bson:"totalSeats" json:"totalSeats"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
