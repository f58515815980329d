package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "dimple/database/repository/booking"
	paymentRepo "dimple/database/repository/payment"
	"dimple/models"
	"dimple/services/booking"
	"dimple/services/notification"
	"dimple/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the contract the payment workflow relies on. The Telebirr client
// satisfies it; protocol details stay behind it.
type Gateway interface {
	Initiate(ctx context.Context, amount float64, phone, reference, description string) (string, error)
	Verify(ctx context.Context, reference string) (string, error)
}

// PaymentService coordinates payment initiation, gateway results and the
// payment side of the booking state machine.
type PaymentService interface {
	Initiate(ctx context.Context, actor models.Actor, req models.InitiatePaymentRequest) (*models.Payment, error)
	VerifyByReference(ctx context.Context, actor models.Actor, transactionID string) (*models.Booking, error)
	ApplyPaymentResult(ctx context.Context, transactionID, result string) error
	ConfirmManually(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	Refund(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	History(ctx context.Context, actor models.Actor, page, limit int) ([]models.Booking, int64, error)
	Attempts(ctx context.Context, actor models.Actor, bookingID string) ([]models.Payment, error)
	Reconcile(ctx context.Context) error
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Bookings     bookingRepo.BookingRepository
	Payments     paymentRepo.PaymentRepository
	Gateway      Gateway
	Notification notification.NotificationService
	Logger       *zap.Logger
	// StaleAfter is how long an initiated payment may sit unresolved before
	// the reconciliation sweep polls the gateway for it.
	StaleAfter time.Duration
}

// Initiate starts a Telebirr transfer for a booking. The payment record and
// the booking's transaction reference are persisted before the gateway call,
// so an ambiguous gateway failure leaves a pending attempt the sweep can
// resolve rather than an orphaned transfer.
func (s *DefaultPaymentService) Initiate(ctx context.Context, actor models.Actor, req models.InitiatePaymentRequest) (*models.Payment, error) {
	b, err := s.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	if b.ClientID != actor.ID {
		return nil, booking.ErrUnauthorized
	}
	if b.PaymentStatus == models.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	reference := fmt.Sprintf("DIMPLE_%s_%d", b.ID, time.Now().UnixMilli())
	record := &models.Payment{
		ID:            uuid.New().String(),
		BookingID:     b.ID,
		ClientID:      b.ClientID,
		Amount:        b.TotalAmount,
		Method:        "telebirr",
		Status:        models.PaymentRecordPending,
		TransactionID: reference,
	}
	if err := s.Payments.Create(ctx, record); err != nil {
		return nil, err
	}
	if err := s.Bookings.SetPaymentReference(ctx, b.ID, reference, req.Phone); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Dimple massage booking %s", b.ID)
	if _, err := s.Gateway.Initiate(ctx, b.TotalAmount, req.Phone, reference, description); err != nil {
		s.Logger.Warn("telebirr initiation failed, attempt stays pending",
			zap.String("bookingID", b.ID),
			zap.String("transactionID", reference),
			zap.Error(err))
		return nil, ErrGatewayUnavailable
	}

	s.Logger.Info("payment initiated",
		zap.String("bookingID", b.ID),
		zap.String("transactionID", reference),
		zap.Float64("amount", b.TotalAmount))
	return record, nil
}

// VerifyByReference polls the gateway for a transaction's outcome and applies
// it. Only the booking's client may poll.
func (s *DefaultPaymentService) VerifyByReference(ctx context.Context, actor models.Actor, transactionID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && b.ClientID != actor.ID {
		return nil, booking.ErrUnauthorized
	}

	status, err := s.Gateway.Verify(ctx, transactionID)
	if err != nil {
		return nil, ErrGatewayUnavailable
	}
	if err := s.ApplyPaymentResult(ctx, transactionID, status); err != nil {
		return nil, err
	}
	return s.Bookings.GetByID(ctx, b.ID)
}

// ApplyPaymentResult feeds a gateway outcome into the booking. It is
// idempotent: every update is guarded on the expected prior state, so a
// replayed callback matches nothing and applies nothing. A booking that left
// pending before the result landed (e.g. cancelled by the client) keeps its
// status; only its payment fields settle.
func (s *DefaultPaymentService) ApplyPaymentResult(ctx context.Context, transactionID, result string) error {
	if result == utils.GatewayStatusPending {
		return nil
	}

	b, err := s.Bookings.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return booking.ErrNotFound
		}
		return err
	}

	switch result {
	case utils.GatewayStatusSuccess:
		return s.applySuccess(ctx, b, transactionID, "")
	case utils.GatewayStatusFailed:
		if _, err := s.Payments.UpdateStatusIfPending(ctx, transactionID, models.PaymentRecordFailed, ""); err != nil {
			return err
		}
		if _, err := s.Bookings.MarkPaymentFailedIfPending(ctx, b.ID); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown gateway result %q for transaction %s", result, transactionID)
	}
}

func (s *DefaultPaymentService) applySuccess(ctx context.Context, b *models.Booking, transactionID, confirmedBy string) error {
	if transactionID != "" {
		if _, err := s.Payments.UpdateStatusIfPending(ctx, transactionID, models.PaymentRecordSuccess, ""); err != nil {
			return err
		}
	}

	paidNow, err := s.Bookings.MarkPaidIfPending(ctx, b.ID, confirmedBy)
	if err != nil {
		return err
	}
	if !paidNow {
		// Already settled by an earlier event; nothing more to apply.
		return nil
	}

	// Advance the lifecycle only when the booking is still pending. A
	// cancelled or rejected booking stays where it is.
	if _, err := s.Bookings.ConfirmIfPending(ctx, b.ID); err != nil {
		return err
	}

	s.shareContact(ctx, b.ID)
	return nil
}

// shareContact sends the massager's contact to the client. Fire-and-forget: a
// notification failure never fails the payment transition.
func (s *DefaultPaymentService) shareContact(ctx context.Context, bookingID string) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		s.Logger.Warn("contact share: booking reload failed", zap.String("bookingID", bookingID), zap.Error(err))
		return
	}
	if err := s.Notification.SendContactShared(ctx, b); err != nil {
		s.Logger.Warn("contact share notification failed", zap.String("bookingID", bookingID), zap.Error(err))
		return
	}
	if err := s.Bookings.SetContactShared(ctx, bookingID); err != nil {
		s.Logger.Warn("contact share flag update failed", zap.String("bookingID", bookingID), zap.Error(err))
	}
}

// ConfirmManually lets an admin mark a booking paid after verifying payment
// proof out of band. It goes through the same one-way guard as the gateway
// path, so repeating it is a no-op.
func (s *DefaultPaymentService) ConfirmManually(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, booking.ErrUnauthorized
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}

	if err := s.applySuccess(ctx, b, b.TransactionID, actor.ID); err != nil {
		return nil, err
	}
	return s.Bookings.GetByID(ctx, bookingID)
}

// Refund moves a paid booking to refunded. Admin only; any other payment
// state is an invalid transition.
func (s *DefaultPaymentService) Refund(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, booking.ErrUnauthorized
	}
	changed, err := s.Bookings.MarkRefundedIfPaid(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, booking.ErrInvalidTransition
	}
	return s.Bookings.GetByID(ctx, bookingID)
}

// History pages through the actor's settled payments.
func (s *DefaultPaymentService) History(ctx context.Context, actor models.Actor, page, limit int) ([]models.Booking, int64, error) {
	return s.Bookings.ListPaymentHistory(ctx, actor.ID, page, limit)
}

// Attempts lists every payment attempt recorded against a booking, for the
// booking's participants and admins. A failed attempt stays on record;
// re-initiating adds a new one.
func (s *DefaultPaymentService) Attempts(ctx context.Context, actor models.Actor, bookingID string) ([]models.Payment, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && b.ClientID != actor.ID && b.MassagerID != actor.ID {
		return nil, booking.ErrUnauthorized
	}
	return s.Payments.ListByBooking(ctx, bookingID)
}

// Reconcile resolves payments the gateway never called back about. It polls
// the verify endpoint for every stale pending attempt and applies definitive
// answers through the idempotent path; pending answers and gateway errors
// leave the attempt untouched for the next sweep.
func (s *DefaultPaymentService) Reconcile(ctx context.Context) error {
	cutoff := time.Now().Add(-s.StaleAfter)
	stale, err := s.Bookings.FindStalePendingPayments(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	for _, b := range stale {
		status, err := s.Gateway.Verify(ctx, b.TransactionID)
		if err != nil {
			s.Logger.Warn("reconcile: gateway verify failed",
				zap.String("bookingID", b.ID),
				zap.String("transactionID", b.TransactionID),
				zap.Error(err))
			continue
		}
		if status == utils.GatewayStatusPending {
			continue
		}
		if err := s.ApplyPaymentResult(ctx, b.TransactionID, status); err != nil {
			s.Logger.Warn("reconcile: apply result failed",
				zap.String("bookingID", b.ID),
				zap.String("transactionID", b.TransactionID),
				zap.Error(err))
		}
	}
	return nil
}
