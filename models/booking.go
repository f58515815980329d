package models

import "time"

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusRejected   BookingStatus = "rejected"
)

// IsTerminal reports whether no further status transitions are permitted.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// PaymentStatus tracks the payment side of a booking independently of its
// lifecycle status.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Session duration bounds in minutes.
const (
	MinDurationMinutes = 30
	MaxDurationMinutes = 240
)

// DateLayout is the calendar-date format used throughout ("YYYY-MM-DD").
const DateLayout = "2006-01-02"

// Booking represents one massage session reservation. Client, massager, time
// window and total amount are fixed at creation; only status, payment fields
// and the cancellation reason mutate afterwards.
type Booking struct {
	ID                 string        `bson:"id" json:"id"`
	ClientID           string        `bson:"client_id" json:"client_id"`
	MassagerID         string        `bson:"massager_id" json:"massager_id"`
	Date               string        `bson:"date" json:"date"`   // "YYYY-MM-DD"
	Start              int           `bson:"start" json:"start"` // minutes from midnight
	End                int           `bson:"end" json:"end"`     // Start + Duration, never past midnight
	Duration           int           `bson:"duration" json:"duration"`
	TotalAmount        float64       `bson:"total_amount" json:"total_amount"` // hourly rate x duration fraction
	Status             BookingStatus `bson:"status" json:"status"`
	PaymentStatus      PaymentStatus `bson:"payment_status" json:"payment_status"`
	PaymentMethod      string        `bson:"payment_method" json:"payment_method"`
	TransactionID      string        `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	TelebirrPhone      string        `bson:"telebirr_phone,omitempty" json:"telebirr_phone,omitempty"`
	CancellationReason string        `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	ContactShared      bool          `bson:"contact_shared" json:"contact_shared"`
	PaymentConfirmedBy string        `bson:"payment_confirmed_by,omitempty" json:"payment_confirmed_by,omitempty"`
	CreatedAt          time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `bson:"updated_at" json:"updated_at"`
}

// CreateBookingRequest defines the payload for creating a booking.
type CreateBookingRequest struct {
	MassagerID      string `json:"massager_id" binding:"required"`
	Date            string `json:"date" binding:"required"`
	StartMinute     int    `json:"start_minute" binding:"min=0,max=1439"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

// UpdateBookingStatusRequest defines the payload for a status transition.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
	Reason string        `json:"reason,omitempty"`
}
