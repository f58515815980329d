package models

import "time"

// AvailabilitySlot is one bookable window within a weekday, expressed in
// minutes from midnight (e.g. 540 for 9:00 AM). Slots within a day must not
// overlap and start < end.
type AvailabilitySlot struct {
	Start int  `bson:"start" json:"start"`
	End   int  `bson:"end" json:"end"`
	Open  bool `bson:"open" json:"open"`
}

// DayAvailability holds the slots a massager declares for one weekday.
// Day is the lowercase weekday name ("monday" .. "sunday").
type DayAvailability struct {
	Day   string             `bson:"day" json:"day"`
	Slots []AvailabilitySlot `bson:"slots" json:"slots"`
}

// MassagerProfile is the provider-side profile of a massager account.
type MassagerProfile struct {
	ID                 string            `bson:"id" json:"id"`
	UserID             string            `bson:"user_id" json:"user_id"`
	Specialties        []string          `bson:"specialties" json:"specialties"`
	Description        string            `bson:"description,omitempty" json:"description,omitempty"`
	ServiceLocations   []string          `bson:"service_locations,omitempty" json:"service_locations,omitempty"`
	HourlyRate         float64           `bson:"hourly_rate" json:"hourly_rate"` // ETB per hour
	WeeklyAvailability []DayAvailability `bson:"weekly_availability" json:"weekly_availability"`
	IsAvailable        bool              `bson:"is_available" json:"is_available"`
	RatingAverage      float64           `bson:"rating_average" json:"rating_average"`
	RatingCount        int               `bson:"rating_count" json:"rating_count"`
	CompletedSessions  int               `bson:"completed_sessions" json:"completed_sessions"`
	CreatedAt          time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time         `bson:"updated_at" json:"updated_at"`
}

// SetAvailabilityRequest defines the payload for replacing a massager's
// recurring weekly schedule.
type SetAvailabilityRequest struct {
	WeeklyAvailability []DayAvailability `json:"weekly_availability" binding:"required"`
}

// MassagerFilter carries the discovery filters for listing massagers.
type MassagerFilter struct {
	Specialty     string
	Location      string
	AvailableOnly bool
	Page          int
	Limit         int
}
