package booking

import "dimple/models"

// Overlaps reports whether two half-open intervals [s1,e1) and [s2,e2)
// intersect. Back-to-back intervals (e1 == s2 or e2 == s1) do not.
//
// This single test covers every containment case; callers must not add
// per-case checks on top of it.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// HasConflict reports whether the candidate window overlaps any of the given
// bookings. The caller supplies the bookings that block a slot: same massager,
// same date, status confirmed or in-progress.
func HasConflict(startMinute, endMinute int, existing []models.Booking) bool {
	for _, b := range existing {
		if Overlaps(startMinute, endMinute, b.Start, b.End) {
			return true
		}
	}
	return false
}
