package models

import "time"

// Rating is a client's post-service review of a completed booking. At most
// one rating exists per booking, enforced by a unique index on booking_id.
type Rating struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"booking_id" json:"booking_id"`
	ClientID   string    `bson:"client_id" json:"client_id"`
	MassagerID string    `bson:"massager_id" json:"massager_id"`
	Score      int       `bson:"score" json:"score"` // 1..5
	Review     string    `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// CreateRatingRequest defines the payload for rating a completed booking.
type CreateRatingRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Score     int    `json:"score" binding:"required,min=1,max=5"`
	Review    string `json:"review,omitempty" binding:"max=500"`
}
