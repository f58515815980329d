package massagerRepo

import (
	"context"
	"errors"

	"dimple/models"
)

// ErrNotFound is returned when no massager profile matches the lookup.
var ErrNotFound = errors.New("massager not found")

// MassagerRepository defines the interface for massager profile data access.
type MassagerRepository interface {
	Create(ctx context.Context, profile *models.MassagerProfile) error
	GetByID(ctx context.Context, id string) (*models.MassagerProfile, error)
	GetByUserID(ctx context.Context, userID string) (*models.MassagerProfile, error)
	List(ctx context.Context, filter models.MassagerFilter) ([]models.MassagerProfile, int64, error)
	UpdateAvailability(ctx context.Context, id string, availability []models.DayAvailability) error
	IncrementCompletedSessions(ctx context.Context, id string) error
}
