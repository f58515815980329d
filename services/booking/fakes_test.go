package booking_test

import (
	"context"
	"sync"
	"time"

	bookingRepo "dimple/database/repository/booking"
	massagerRepo "dimple/database/repository/massager"
	"dimple/models"
	"dimple/utils"
)

// memBookingRepo is an in-memory BookingRepository for service tests.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) GetByTransactionID(_ context.Context, transactionID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.TransactionID == transactionID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (r *memBookingRepo) FindActiveByMassagerDate(_ context.Context, massagerID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.MassagerID == massagerID && b.Date == date &&
			(b.Status == models.StatusConfirmed || b.Status == models.StatusInProgress) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	if to == models.StatusCancelled {
		b.CancellationReason = reason
	}
	b.UpdatedAt = time.Now()
	return true, nil
}

func (r *memBookingRepo) SetPaymentReference(_ context.Context, id, transactionID, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.TransactionID = transactionID
	b.TelebirrPhone = phone
	return nil
}

func (r *memBookingRepo) MarkPaidIfPending(_ context.Context, id, confirmedBy string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.PaymentStatus != models.PaymentPending {
		return false, nil
	}
	b.PaymentStatus = models.PaymentPaid
	b.PaymentConfirmedBy = confirmedBy
	return true, nil
}

func (r *memBookingRepo) MarkPaymentFailedIfPending(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.PaymentStatus != models.PaymentPending {
		return false, nil
	}
	b.PaymentStatus = models.PaymentFailed
	return true, nil
}

func (r *memBookingRepo) MarkRefundedIfPaid(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.PaymentStatus != models.PaymentPaid {
		return false, nil
	}
	b.PaymentStatus = models.PaymentRefunded
	return true, nil
}

func (r *memBookingRepo) ConfirmIfPending(ctx context.Context, id string) (bool, error) {
	return r.UpdateStatus(ctx, id, models.StatusPending, models.StatusConfirmed, "")
}

func (r *memBookingRepo) SetContactShared(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.ContactShared = true
	return nil
}

func (r *memBookingRepo) ListByClient(_ context.Context, clientID string, page, limit int) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) ListByMassager(_ context.Context, massagerID string, page, limit int) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.MassagerID == massagerID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) ListPendingPayments(_ context.Context, page, limit int) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PaymentStatus == models.PaymentPending && b.TransactionID != "" {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) ListPaymentHistory(_ context.Context, clientID string, page, limit int) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID && b.PaymentStatus != models.PaymentPending {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) FindStalePendingPayments(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PaymentStatus == models.PaymentPending && b.TransactionID != "" && b.CreatedAt.Before(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// memMassagerRepo is an in-memory MassagerRepository keyed by account id.
type memMassagerRepo struct {
	mu        sync.Mutex
	profiles  map[string]*models.MassagerProfile // by profile id
	completed map[string]int
}

func newMemMassagerRepo(profiles ...*models.MassagerProfile) *memMassagerRepo {
	r := &memMassagerRepo{
		profiles:  make(map[string]*models.MassagerProfile),
		completed: make(map[string]int),
	}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *memMassagerRepo) Create(_ context.Context, p *models.MassagerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
	return nil
}

func (r *memMassagerRepo) GetByID(_ context.Context, id string) (*models.MassagerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, massagerRepo.ErrNotFound
	}
	return p, nil
}

func (r *memMassagerRepo) GetByUserID(_ context.Context, userID string) (*models.MassagerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, massagerRepo.ErrNotFound
}

func (r *memMassagerRepo) List(_ context.Context, filter models.MassagerFilter) ([]models.MassagerProfile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MassagerProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memMassagerRepo) UpdateAvailability(_ context.Context, id string, availability []models.DayAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return massagerRepo.ErrNotFound
	}
	p.WeeklyAvailability = availability
	return nil
}

func (r *memMassagerRepo) IncrementCompletedSessions(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return massagerRepo.ErrNotFound
	}
	r.completed[id]++
	return nil
}

// passLocker runs the critical section inline; contended simulates a held
// lock.
type passLocker struct {
	contended bool
	calls     int
}

func (l *passLocker) WithProviderDateLock(ctx context.Context, providerID, date string, fn func(ctx context.Context) error) error {
	l.calls++
	if l.contended {
		return utils.ErrLockNotAcquired
	}
	return fn(ctx)
}
