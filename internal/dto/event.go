package dto

import "time"

// CreateEventRequest represents a vendor creating an event listing
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Category    string    `json:"category" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Venue       string    `json:"venue" binding:"required"`
	Address     string    `json:"address"`
	Price       float64   `json:"price" binding:"gte=0"`
	TotalSeats  int       `json:"totalSeats" binding:"gte=0"`
}

// UpdateEventRequest is a partial update; nil fields are left untouched
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Category    *string    `json:"category"`
	Date        *time.Time `json:"date"`
	Venue       *string    `json:"venue"`
	Address     *string    `json:"address"`
	Price       *float64   `json:"price" binding:"omitempty,gte=0"`
	TotalSeats  *int       `json:"totalSeats" binding:"omitempty,gte=0"`
}

// EventListQuery carries listing filters from the query string
type EventListQuery struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
