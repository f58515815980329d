package booking

import (
	"strings"
	"time"

	"dimple/models"
)

// minutesPerDay bounds every clock value; windows never cross midnight.
const minutesPerDay = 24 * 60

// WeekdayName resolves a "YYYY-MM-DD" date to its lowercase weekday name.
func WeekdayName(date string) (string, error) {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", err
	}
	return strings.ToLower(t.Weekday().String()), nil
}

// WithinAvailability reports whether the candidate window
// [startMinute, startMinute+durationMinutes) lies entirely inside a single
// open slot of the schedule on the given date. A window spanning two adjacent
// slots is not accepted even when both are open; a window touching a slot
// boundary exactly is.
//
// Pure function of its inputs.
func WithinAvailability(schedule []models.DayAvailability, date string, startMinute, durationMinutes int) bool {
	day, err := WeekdayName(date)
	if err != nil {
		return false
	}

	end := startMinute + durationMinutes
	for _, entry := range schedule {
		if !strings.EqualFold(entry.Day, day) {
			continue
		}
		for _, slot := range entry.Slots {
			if !slot.Open {
				continue
			}
			if startMinute >= slot.Start && end <= slot.End {
				return true
			}
		}
	}
	return false
}
