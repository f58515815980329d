package bookingRepo

import (
	"context"
	"errors"
	"time"

	"dimple/models"
)

// ErrNotFound is returned when no booking matches the lookup.
var ErrNotFound = errors.New("booking not found")

// BookingRepository defines the interface for booking data access.
//
// The Mark*/ConfirmIfPending methods are guarded conditional updates: the
// filter includes the expected prior state and the boolean result reports
// whether the document actually changed. Callers key side effects off that
// result so replayed events cannot double-apply.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error)

	// FindActiveByMassagerDate returns the bookings that block a time window:
	// same massager, same calendar date, status confirmed or in-progress.
	FindActiveByMassagerDate(ctx context.Context, massagerID, date string) ([]models.Booking, error)

	// UpdateStatus performs a compare-and-swap status transition and reports
	// whether the booking was still in the expected prior state.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason string) (bool, error)

	SetPaymentReference(ctx context.Context, id, transactionID, phone string) error
	MarkPaidIfPending(ctx context.Context, id, confirmedBy string) (bool, error)
	MarkPaymentFailedIfPending(ctx context.Context, id string) (bool, error)
	MarkRefundedIfPaid(ctx context.Context, id string) (bool, error)
	ConfirmIfPending(ctx context.Context, id string) (bool, error)
	SetContactShared(ctx context.Context, id string) error

	ListByClient(ctx context.Context, clientID string, page, limit int) ([]models.Booking, int64, error)
	ListByMassager(ctx context.Context, massagerID string, page, limit int) ([]models.Booking, int64, error)
	ListPendingPayments(ctx context.Context, page, limit int) ([]models.Booking, int64, error)
	ListPaymentHistory(ctx context.Context, clientID string, page, limit int) ([]models.Booking, int64, error)

	// FindStalePendingPayments lists bookings whose payment never resolved:
	// payment pending, a transaction reference issued, created before cutoff.
	FindStalePendingPayments(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
}
