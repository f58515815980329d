package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "dimple/database/repository/booking"
	massagerRepo "dimple/database/repository/massager"
	"dimple/models"
	"dimple/services/notification"
	"dimple/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService over the Mongo repositories
// and the Redis booking lock.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Massager     massagerRepo.MassagerRepository
	Locker       utils.BookingLocker
	Notification notification.NotificationService
	Logger       *zap.Logger
}

// CreateBooking validates the requested window against the massager's weekly
// availability and the existing active bookings, then persists the booking in
// pending/pending state. The conflict check and the insert run inside a lock
// scoped to the massager and date, so two concurrent requests for overlapping
// windows cannot both succeed.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, req models.CreateBookingRequest) (*models.Booking, error) {
	if actor.Role != models.RoleClient {
		return nil, ErrUnauthorized
	}
	if err := validateWindow(req.Date, req.StartMinute, req.DurationMinutes); err != nil {
		return nil, err
	}

	profile, err := s.Massager.GetByUserID(ctx, req.MassagerID)
	if err != nil {
		if errors.Is(err, massagerRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !WithinAvailability(profile.WeeklyAvailability, req.Date, req.StartMinute, req.DurationMinutes) {
		return nil, ErrSlotNotAvailable
	}

	endMinute := req.StartMinute + req.DurationMinutes
	newBooking := &models.Booking{
		ID:            uuid.New().String(),
		ClientID:      actor.ID,
		MassagerID:    req.MassagerID,
		Date:          req.Date,
		Start:         req.StartMinute,
		End:           endMinute,
		Duration:      req.DurationMinutes,
		TotalAmount:   profile.HourlyRate * float64(req.DurationMinutes) / 60,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: "telebirr",
	}

	err = s.Locker.WithProviderDateLock(ctx, req.MassagerID, req.Date, func(lockCtx context.Context) error {
		// Re-check inside the critical section so a concurrent creation that
		// won the lock first is seen here.
		active, err := s.Repo.FindActiveByMassagerDate(lockCtx, req.MassagerID, req.Date)
		if err != nil {
			return err
		}
		if HasConflict(req.StartMinute, endMinute, active) {
			return ErrSlotConflict
		}
		return s.Repo.Create(lockCtx, newBooking)
	})
	if err != nil {
		if errors.Is(err, utils.ErrLockNotAcquired) {
			return nil, ErrSlotContended
		}
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingID", newBooking.ID),
		zap.String("massagerID", newBooking.MassagerID),
		zap.String("date", newBooking.Date),
		zap.Int("start", newBooking.Start),
		zap.Int("end", newBooking.End))

	return newBooking, nil
}

// SetBookingStatus applies a role-gated lifecycle transition. The repository
// update is a compare-and-swap on the current status, so a transition racing
// with another one fails rather than overwriting it.
func (s *DefaultBookingService) SetBookingStatus(ctx context.Context, actor models.Actor, bookingID string, newStatus models.BookingStatus, reason string) (*models.Booking, error) {
	if len(reason) > 500 {
		return nil, ErrInvalidInput
	}

	current, err := s.getOwned(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	if err := CanTransition(current.Status, newStatus, actor.Role); err != nil {
		return nil, err
	}

	if newStatus != models.StatusCancelled {
		reason = ""
	}
	changed, err := s.Repo.UpdateStatus(ctx, bookingID, current.Status, newStatus, reason)
	if err != nil {
		return nil, err
	}
	if !changed {
		// The booking moved on under us; the requested edge no longer exists.
		return nil, ErrInvalidTransition
	}

	if newStatus == models.StatusCompleted {
		if profile, err := s.Massager.GetByUserID(ctx, current.MassagerID); err == nil {
			if err := s.Massager.IncrementCompletedSessions(ctx, profile.ID); err != nil {
				s.Logger.Warn("failed to increment completed sessions",
					zap.String("massagerID", current.MassagerID), zap.Error(err))
			}
		}
	}

	updated, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.Notification != nil {
		if err := s.Notification.SendBookingStatusChanged(ctx, updated); err != nil {
			s.Logger.Warn("failed to push status change",
				zap.String("bookingID", bookingID), zap.Error(err))
		}
	}

	return updated, nil
}

// GetBooking returns a booking visible to the actor: its client, its
// massager, or an admin.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	return s.getOwned(ctx, actor, bookingID)
}

func (s *DefaultBookingService) getOwned(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && b.ClientID != actor.ID && b.MassagerID != actor.ID {
		return nil, ErrUnauthorized
	}
	return b, nil
}

// ListBookings pages through the actor's own bookings, client or massager view.
func (s *DefaultBookingService) ListBookings(ctx context.Context, actor models.Actor, page, limit int) ([]models.Booking, int64, error) {
	if actor.Role == models.RoleMassager {
		return s.Repo.ListByMassager(ctx, actor.ID, page, limit)
	}
	return s.Repo.ListByClient(ctx, actor.ID, page, limit)
}

// ListPendingPayments is the admin view of bookings awaiting payment.
func (s *DefaultBookingService) ListPendingPayments(ctx context.Context, actor models.Actor, page, limit int) ([]models.Booking, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrUnauthorized
	}
	return s.Repo.ListPendingPayments(ctx, page, limit)
}

func validateWindow(date string, startMinute, durationMinutes int) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return ErrInvalidInput
	}
	// The layout sorts lexicographically, so a plain string compare rejects
	// past dates.
	if date < time.Now().Format(models.DateLayout) {
		return ErrInvalidInput
	}
	if durationMinutes < models.MinDurationMinutes || durationMinutes > models.MaxDurationMinutes {
		return ErrInvalidInput
	}
	if startMinute < 0 || startMinute+durationMinutes > minutesPerDay {
		return ErrInvalidInput
	}
	return nil
}
