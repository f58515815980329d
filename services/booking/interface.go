package booking

import (
	"context"

	"dimple/models"
)

// BookingService exposes the booking lifecycle to the REST layer.
type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, req models.CreateBookingRequest) (*models.Booking, error)
	SetBookingStatus(ctx context.Context, actor models.Actor, bookingID string, newStatus models.BookingStatus, reason string) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Actor, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, actor models.Actor, page, limit int) ([]models.Booking, int64, error)
	ListPendingPayments(ctx context.Context, actor models.Actor, page, limit int) ([]models.Booking, int64, error)
}
