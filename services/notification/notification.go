package notification

import (
	"context"
	"fmt"

	userRepo "dimple/database/repository/user"
	"dimple/models"
	"dimple/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines the FCM pushes the booking core emits.
// All of them are best-effort: callers log failures and move on.
type NotificationService interface {
	SendContactShared(ctx context.Context, booking *models.Booking) error
	SendBookingStatusChanged(ctx context.Context, booking *models.Booking) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users userRepo.UserRepository
}

// SendContactShared pushes the massager's contact details to the client after
// a payment is confirmed.
func (s *DefaultNotificationService) SendContactShared(ctx context.Context, booking *models.Booking) error {
	client, err := s.Users.GetByID(ctx, booking.ClientID)
	if err != nil {
		return fmt.Errorf("SendContactShared: could not find client %s: %w", booking.ClientID, err)
	}
	massager, err := s.Users.GetByID(ctx, booking.MassagerID)
	if err != nil {
		return fmt.Errorf("SendContactShared: could not find massager %s: %w", booking.MassagerID, err)
	}

	title := "Payment confirmed"
	body := fmt.Sprintf("Your booking on %s is confirmed. You can reach %s at %s.",
		booking.Date, massager.Name, massager.Phone)

	return s.push(ctx, client.FCMToken, title, body, map[string]string{
		"type":           "contact_shared",
		"bookingId":      booking.ID,
		"massagerName":   massager.Name,
		"massagerPhone":  massager.Phone,
		"massagerUserId": massager.ID,
	})
}

// SendBookingStatusChanged notifies the client of a lifecycle change.
func (s *DefaultNotificationService) SendBookingStatusChanged(ctx context.Context, booking *models.Booking) error {
	client, err := s.Users.GetByID(ctx, booking.ClientID)
	if err != nil {
		return fmt.Errorf("SendBookingStatusChanged: could not find client %s: %w", booking.ClientID, err)
	}

	title := "Booking update"
	body := fmt.Sprintf("Your booking on %s is now %s.", booking.Date, booking.Status)

	return s.push(ctx, client.FCMToken, title, body, map[string]string{
		"type":      "booking_status",
		"bookingId": booking.ID,
		"status":    string(booking.Status),
	})
}

func (s *DefaultNotificationService) push(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return fmt.Errorf("recipient has no FCM token")
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}
