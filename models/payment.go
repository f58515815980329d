package models

import "time"

// PaymentRecordStatus mirrors the subset of gateway states kept on the audit
// record.
type PaymentRecordStatus string

const (
	PaymentRecordPending PaymentRecordStatus = "pending"
	PaymentRecordSuccess PaymentRecordStatus = "success"
	PaymentRecordFailed  PaymentRecordStatus = "failed"
)

// Payment is the audit record of one payment attempt against a booking. A
// failed attempt is never deleted; re-initiating creates a new record with a
// fresh transaction reference.
type Payment struct {
	ID             string              `bson:"id" json:"id"`
	BookingID      string              `bson:"booking_id" json:"booking_id"`
	ClientID       string              `bson:"client_id" json:"client_id"`
	Amount         float64             `bson:"amount" json:"amount"`
	Method         string              `bson:"method" json:"method"` // "telebirr"
	Status         PaymentRecordStatus `bson:"status" json:"status"`
	TransactionID  string              `bson:"transaction_id" json:"transaction_id"`
	GatewayMessage string              `bson:"gateway_message,omitempty" json:"gateway_message,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// InitiatePaymentRequest defines the payload for starting a Telebirr payment.
type InitiatePaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// VerifyPaymentRequest defines the payload for polling a payment outcome.
type VerifyPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}
