package payment_test

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "dimple/database/repository/booking"
	paymentRepo "dimple/database/repository/payment"
	"dimple/models"
)

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo(seed ...*models.Booking) *memBookingRepo {
	r := &memBookingRepo{bookings: make(map[string]*models.Booking)}
	for _, b := range seed {
		cp := *b
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = time.Now()
		}
		r.bookings[b.ID] = &cp
	}
	return r
}

func (r *memBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	return nil, nil
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
	return nil, 0, nil
}

func (r *memBookingRepo) ListByMassager(_ context.Context, massagerID string, page, limit int) ([]models.Booking, int64, error) {
	return nil, 0, nil
}

func (r *memBookingRepo) ListPendingPayments(_ context.Context, page, limit int) ([]models.Booking, int64, error) {
	return nil, 0, nil
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

type memPaymentRepo struct {
	mu      sync.Mutex
	records map[string]*models.Payment // by transaction id
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{records: make(map[string]*models.Payment)}
}

func (r *memPaymentRepo) Create(_ context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.records[p.TransactionID] = &cp
	return nil
}

func (r *memPaymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[transactionID]
	if !ok {
		return nil, paymentRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPaymentRepo) UpdateStatusIfPending(_ context.Context, transactionID string, status models.PaymentRecordStatus, message string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[transactionID]
	if !ok || p.Status != models.PaymentRecordPending {
		return false, nil
	}
	p.Status = status
	p.GatewayMessage = message
	return true, nil
}

func (r *memPaymentRepo) ListByBooking(_ context.Context, bookingID string) ([]models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Payment
	for _, p := range r.records {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// fakeGateway scripts the Telebirr responses per transaction reference.
type fakeGateway struct {
	mu           sync.Mutex
	initiateErr  error
	verifyResult map[string]string
	verifyErr    error
	verifyCalls  int
}

func (g *fakeGateway) Initiate(_ context.Context, amount float64, phone, reference, description string) (string, error) {
	if g.initiateErr != nil {
		return "", g.initiateErr
	}
	return reference, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	if g.verifyErr != nil {
		return "", g.verifyErr
	}
	status, ok := g.verifyResult[reference]
	if !ok {
		return "", errors.New("unknown reference")
	}
	return status, nil
}

// fakeNotifier records contact-share pushes.
type fakeNotifier struct {
	mu             sync.Mutex
	contactShared  []string
	statusChanged  []string
	contactFailErr error
}

func (n *fakeNotifier) SendContactShared(_ context.Context, b *models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.contactFailErr != nil {
		return n.contactFailErr
	}
	n.contactShared = append(n.contactShared, b.ID)
	return nil
}

func (n *fakeNotifier) SendBookingStatusChanged(_ context.Context, b *models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanged = append(n.statusChanged, b.ID)
	return nil
}
