package massager

import (
	"context"
	"errors"
	"sort"

	massagerRepo "dimple/database/repository/massager"
	"dimple/models"
	"dimple/services/booking"

	"go.uber.org/zap"
)

// ErrInvalidSchedule means a submitted weekly schedule breaks the slot
// invariants: unknown weekday, start >= end, out-of-day bounds, or
// overlapping slots within a day.
var ErrInvalidSchedule = errors.New("invalid weekly availability")

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// MassagerService exposes massager discovery and schedule management.
type MassagerService interface {
	Get(ctx context.Context, massagerUserID string) (*models.MassagerProfile, error)
	List(ctx context.Context, filter models.MassagerFilter) ([]models.MassagerProfile, int64, error)
	SetAvailability(ctx context.Context, actor models.Actor, availability []models.DayAvailability) (*models.MassagerProfile, error)
}

// DefaultMassagerService is the production implementation.
type DefaultMassagerService struct {
	Repo   massagerRepo.MassagerRepository
	Logger *zap.Logger
}

// Get returns the profile of a massager account.
func (s *DefaultMassagerService) Get(ctx context.Context, massagerUserID string) (*models.MassagerProfile, error) {
	profile, err := s.Repo.GetByUserID(ctx, massagerUserID)
	if err != nil {
		if errors.Is(err, massagerRepo.ErrNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// List pages through massager profiles matching the discovery filters.
func (s *DefaultMassagerService) List(ctx context.Context, filter models.MassagerFilter) ([]models.MassagerProfile, int64, error) {
	return s.Repo.List(ctx, filter)
}

// SetAvailability replaces the actor's recurring weekly schedule.
func (s *DefaultMassagerService) SetAvailability(ctx context.Context, actor models.Actor, availability []models.DayAvailability) (*models.MassagerProfile, error) {
	if actor.Role != models.RoleMassager {
		return nil, booking.ErrUnauthorized
	}
	if err := ValidateWeeklyAvailability(availability); err != nil {
		return nil, err
	}

	profile, err := s.Repo.GetByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, massagerRepo.ErrNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}

	if err := s.Repo.UpdateAvailability(ctx, profile.ID, availability); err != nil {
		return nil, err
	}

	s.Logger.Info("weekly availability updated",
		zap.String("massagerID", actor.ID),
		zap.Int("days", len(availability)))

	return s.Repo.GetByUserID(ctx, actor.ID)
}

// ValidateWeeklyAvailability checks the slot invariants: every slot has
// start < end within the day, and slots within one weekday do not overlap.
func ValidateWeeklyAvailability(availability []models.DayAvailability) error {
	for _, day := range availability {
		if !weekdays[day.Day] {
			return ErrInvalidSchedule
		}

		slots := make([]models.AvailabilitySlot, len(day.Slots))
		copy(slots, day.Slots)
		sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })

		prevEnd := -1
		for _, slot := range slots {
			if slot.Start < 0 || slot.End > 24*60 || slot.Start >= slot.End {
				return ErrInvalidSchedule
			}
			if slot.Start < prevEnd {
				return ErrInvalidSchedule
			}
			prevEnd = slot.End
		}
	}
	return nil
}
