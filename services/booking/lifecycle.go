package booking

import "dimple/models"

// allowedTransitions maps current status -> actor role -> permitted targets.
// Admins are not listed: they may set any valid target from any non-terminal
// state.
var allowedTransitions = map[models.BookingStatus]map[string][]models.BookingStatus{
	models.StatusPending: {
		models.RoleClient:   {models.StatusCancelled},
		models.RoleMassager: {models.StatusConfirmed, models.StatusRejected},
	},
	models.StatusConfirmed: {
		models.RoleClient:   {models.StatusCancelled},
		models.RoleMassager: {models.StatusInProgress, models.StatusCancelled},
	},
	models.StatusInProgress: {
		models.RoleMassager: {models.StatusCompleted},
	},
}

func validStatus(s models.BookingStatus) bool {
	switch s {
	case models.StatusPending, models.StatusConfirmed, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled, models.StatusRejected:
		return true
	}
	return false
}

// CanTransition checks whether the given role may move a booking from one
// status to another. Terminal states admit no transition for anyone; a legal
// edge requested by the wrong role fails with ErrUnauthorized.
func CanTransition(from, to models.BookingStatus, role string) error {
	if from.IsTerminal() {
		return ErrInvalidTransition
	}
	if !validStatus(to) || to == from || to == models.StatusPending {
		return ErrInvalidTransition
	}
	if role == models.RoleAdmin {
		return nil
	}
	for _, target := range allowedTransitions[from][role] {
		if target == to {
			return nil
		}
	}
	return ErrUnauthorized
}
