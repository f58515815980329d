package booking_test

import (
	"context"
	"testing"
	"time"

	"dimple/models"
	"dimple/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// nextMonday returns the first Monday strictly after today, so test dates are
// always in the future.
func nextMonday() string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(models.DateLayout)
}

func mondayProfile() *models.MassagerProfile {
	return &models.MassagerProfile{
		ID:         "profile-1",
		UserID:     "massager-1",
		HourlyRate: 600,
		WeeklyAvailability: []models.DayAvailability{
			{
				Day: "monday",
				Slots: []models.AvailabilitySlot{
					{Start: 540, End: 1020, Open: true}, // 09:00-17:00
				},
			},
		},
	}
}

func newService(repo *memBookingRepo, massagers *memMassagerRepo, locker *passLocker) *booking.DefaultBookingService {
	return &booking.DefaultBookingService{
		Repo:     repo,
		Massager: massagers,
		Locker:   locker,
		Logger:   zap.NewNop(),
	}
}

var (
	client   = models.Actor{ID: "client-1", Role: models.RoleClient}
	client2  = models.Actor{ID: "client-2", Role: models.RoleClient}
	masseur  = models.Actor{ID: "massager-1", Role: models.RoleMassager}
	admin    = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	stranger = models.Actor{ID: "someone-else", Role: models.RoleClient}
)

func TestCreateBooking(t *testing.T) {
	repo := newMemBookingRepo()
	svc := newService(repo, newMemMassagerRepo(mondayProfile()), &passLocker{})
	monday := nextMonday()

	created, err := svc.CreateBooking(context.Background(), client, models.CreateBookingRequest{
		MassagerID:      "massager-1",
		Date:            monday,
		StartMinute:     600, // 10:00
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PaymentPending, created.PaymentStatus)
	assert.Equal(t, "client-1", created.ClientID)
	assert.Equal(t, 600, created.Start)
	assert.Equal(t, 660, created.End)
	assert.InDelta(t, 600.0, created.TotalAmount, 0.001) // 600/hr * 60min

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
}

func TestCreateBookingValidation(t *testing.T) {
	svc := newService(newMemBookingRepo(), newMemMassagerRepo(mondayProfile()), &passLocker{})
	monday := nextMonday()
	ctx := context.Background()

	base := models.CreateBookingRequest{
		MassagerID:      "massager-1",
		Date:            monday,
		StartMinute:     600,
		DurationMinutes: 60,
	}

	t.Run("only clients may book", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, masseur, base)
		assert.ErrorIs(t, err, booking.ErrUnauthorized)
	})

	t.Run("past date", func(t *testing.T) {
		req := base
		req.Date = "2020-01-06"
		_, err := svc.CreateBooking(ctx, client, req)
		assert.ErrorIs(t, err, booking.ErrInvalidInput)
	})

	t.Run("duration below minimum", func(t *testing.T) {
		req := base
		req.DurationMinutes = 15
		_, err := svc.CreateBooking(ctx, client, req)
		assert.ErrorIs(t, err, booking.ErrInvalidInput)
	})

	t.Run("duration above maximum", func(t *testing.T) {
		req := base
		req.DurationMinutes = 300
		_, err := svc.CreateBooking(ctx, client, req)
		assert.ErrorIs(t, err, booking.ErrInvalidInput)
	})

	t.Run("window crossing midnight", func(t *testing.T) {
		req := base
		req.StartMinute = 1380 // 23:00
		req.DurationMinutes = 120
		_, err := svc.CreateBooking(ctx, client, req)
		assert.ErrorIs(t, err, booking.ErrInvalidInput)
	})

	t.Run("unknown massager", func(t *testing.T) {
		req := base
		req.MassagerID = "nobody"
		_, err := svc.CreateBooking(ctx, client, req)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})

	t.Run("outside availability", func(t *testing.T) {
		req := base
		req.StartMinute = 480 // 08:00, before the slot opens
		_, err := svc.CreateBooking(ctx, client, req)
		assert.ErrorIs(t, err, booking.ErrSlotNotAvailable)
	})
}

// A pending booking must not block the slot; a confirmed one must.
func TestCreateBookingConflicts(t *testing.T) {
	repo := newMemBookingRepo()
	svc := newService(repo, newMemMassagerRepo(mondayProfile()), &passLocker{})
	monday := nextMonday()
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, client, models.CreateBookingRequest{
		MassagerID:      "massager-1",
		Date:            monday,
		StartMinute:     600,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	// Still pending: an overlapping request from another client goes through.
	overlapping, err := svc.CreateBooking(ctx, client2, models.CreateBookingRequest{
		MassagerID:      "massager-1",
		Date:            monday,
		StartMinute:     630,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.NotNil(t, overlapping)

	// Massager confirms the first; now its window blocks the slot.
	_, err = svc.SetBookingStatus(ctx, masseur, first.ID, models.StatusConfirmed, "")
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, stranger, models.CreateBookingRequest{
		MassagerID:      "massager-1",
		Date:            monday,
		StartMinute:     630,
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, booking.ErrSlotConflict)

	// Back-to-back with the confirmed window is fine.
	_, err = svc.CreateBooking(ctx, stranger, models.CreateBookingRequest{
		MassagerID:      "massager-1",
		Date:            monday,
		StartMinute:     660,
		DurationMinutes: 60,
	})
	assert.NoError(t, err)
}

func TestCreateBookingLockContention(t *testing.T) {
	svc := newService(newMemBookingRepo(), newMemMassagerRepo(mondayProfile()), &passLocker{contended: true})

	_, err := svc.CreateBooking(context.Background(), client, models.CreateBookingRequest{
		MassagerID:      "massager-1",
		Date:            nextMonday(),
		StartMinute:     600,
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, booking.ErrSlotContended)
}

func TestSetBookingStatus(t *testing.T) {
	ctx := context.Background()
	monday := nextMonday()

	setup := func(t *testing.T) (*booking.DefaultBookingService, *memBookingRepo, *memMassagerRepo, string) {
		repo := newMemBookingRepo()
		massagers := newMemMassagerRepo(mondayProfile())
		svc := newService(repo, massagers, &passLocker{})
		b, err := svc.CreateBooking(ctx, client, models.CreateBookingRequest{
			MassagerID:      "massager-1",
			Date:            monday,
			StartMinute:     600,
			DurationMinutes: 60,
		})
		require.NoError(t, err)
		return svc, repo, massagers, b.ID
	}

	t.Run("massager confirms", func(t *testing.T) {
		svc, _, _, id := setup(t)
		updated, err := svc.SetBookingStatus(ctx, masseur, id, models.StatusConfirmed, "")
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, updated.Status)
	})

	t.Run("client cancels with reason", func(t *testing.T) {
		svc, _, _, id := setup(t)
		updated, err := svc.SetBookingStatus(ctx, client, id, models.StatusCancelled, "schedule changed")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, updated.Status)
		assert.Equal(t, "schedule changed", updated.CancellationReason)
	})

	t.Run("reason too long", func(t *testing.T) {
		svc, _, _, id := setup(t)
		long := make([]byte, 501)
		for i := range long {
			long[i] = 'x'
		}
		_, err := svc.SetBookingStatus(ctx, client, id, models.StatusCancelled, string(long))
		assert.ErrorIs(t, err, booking.ErrInvalidInput)
	})

	t.Run("non-participant is rejected", func(t *testing.T) {
		svc, _, _, id := setup(t)
		_, err := svc.SetBookingStatus(ctx, stranger, id, models.StatusCancelled, "")
		assert.ErrorIs(t, err, booking.ErrUnauthorized)
	})

	t.Run("admin may act on any booking", func(t *testing.T) {
		svc, _, _, id := setup(t)
		updated, err := svc.SetBookingStatus(ctx, admin, id, models.StatusCancelled, "fraud review")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, updated.Status)
	})

	t.Run("terminal booking is immutable", func(t *testing.T) {
		svc, _, _, id := setup(t)
		_, err := svc.SetBookingStatus(ctx, client, id, models.StatusCancelled, "")
		require.NoError(t, err)
		_, err = svc.SetBookingStatus(ctx, masseur, id, models.StatusConfirmed, "")
		assert.ErrorIs(t, err, booking.ErrInvalidTransition)
	})

	t.Run("completion increments sessions", func(t *testing.T) {
		svc, _, massagers, id := setup(t)
		_, err := svc.SetBookingStatus(ctx, masseur, id, models.StatusConfirmed, "")
		require.NoError(t, err)
		_, err = svc.SetBookingStatus(ctx, masseur, id, models.StatusInProgress, "")
		require.NoError(t, err)
		_, err = svc.SetBookingStatus(ctx, masseur, id, models.StatusCompleted, "")
		require.NoError(t, err)
		assert.Equal(t, 1, massagers.completed["profile-1"])
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, _, _, _ := setup(t)
		_, err := svc.SetBookingStatus(ctx, client, "no-such-id", models.StatusCancelled, "")
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})
}

func TestGetBookingVisibility(t *testing.T) {
	ctx := context.Background()
	svc := newService(newMemBookingRepo(), newMemMassagerRepo(mondayProfile()), &passLocker{})

	b, err := svc.CreateBooking(ctx, client, models.CreateBookingRequest{
		MassagerID:      "massager-1",
		Date:            nextMonday(),
		StartMinute:     600,
		DurationMinutes: 60,
	})
	require.NoError(t, err)

	for _, actor := range []models.Actor{client, masseur, admin} {
		got, err := svc.GetBooking(ctx, actor, b.ID)
		require.NoError(t, err, "role %s", actor.Role)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err = svc.GetBooking(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, booking.ErrUnauthorized)
}
