package rating

import (
	"context"
	"errors"

	bookingRepo "dimple/database/repository/booking"
	ratingRepo "dimple/database/repository/rating"
	"dimple/models"
	"dimple/services/booking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrBookingNotCompleted means the booking is not in a ratable state.
	ErrBookingNotCompleted = errors.New("only completed bookings can be rated")

	// ErrAlreadyRated means the booking already carries a rating.
	ErrAlreadyRated = errors.New("booking has already been rated")
)

// RatingService exposes post-service ratings to the REST layer.
type RatingService interface {
	Create(ctx context.Context, actor models.Actor, req models.CreateRatingRequest) (*models.Rating, error)
	ListForMassager(ctx context.Context, massagerID string, page, limit int) ([]models.Rating, int64, error)
}

// DefaultRatingService is the production implementation.
type DefaultRatingService struct {
	Ratings  ratingRepo.RatingRepository
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

// Create records a rating for a completed booking. The rating insert and the
// massager's derived average update commit together; the unique index on
// booking_id enforces at most one rating per booking.
func (s *DefaultRatingService) Create(ctx context.Context, actor models.Actor, req models.CreateRatingRequest) (*models.Rating, error) {
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
	if b.Status != models.StatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	r := &models.Rating{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		ClientID:   b.ClientID,
		MassagerID: b.MassagerID,
		Score:      req.Score,
		Review:     req.Review,
	}

	if err := s.Ratings.CreateWithRecalc(ctx, r); err != nil {
		if errors.Is(err, ratingRepo.ErrDuplicate) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}

	s.Logger.Info("rating created",
		zap.String("bookingID", b.ID),
		zap.String("massagerID", b.MassagerID),
		zap.Int("score", req.Score))
	return r, nil
}

// ListForMassager pages through a massager's ratings, newest first.
func (s *DefaultRatingService) ListForMassager(ctx context.Context, massagerID string, page, limit int) ([]models.Rating, int64, error) {
	return s.Ratings.ListByMassager(ctx, massagerID, page, limit)
}
