package service

import (
	"fmt"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

// ValidateTimeSlot checks a candidate slot against the class timetable and,
// when the candidate names a room, against the bookings of that room.
// Slots sharing the candidate's ID are ignored so an edited slot does not
// conflict with its previous version. The function has no side effects.
func ValidateTimeSlot(candidate models.TimeSlot, classSlots, roomSlots []models.TimeSlot) error {
	if candidate.End <= candidate.Start {
		return appErrors.Clone(appErrors.ErrInvalidRange, fmt.Sprintf("time slot end %s must be after start %s", candidate.End, candidate.Start))
	}
	if !candidate.Day.Valid() {
		return appErrors.Clone(appErrors.ErrInvalidDay, fmt.Sprintf("day %q is not schedulable", candidate.Day))
	}

	for _, existing := range classSlots {
		if sameSlot(candidate, existing) || !candidate.Overlaps(existing) {
			continue
		}
		conflict := &models.SlotConflictError{Conflicting: existing}
		return appErrors.Wrap(conflict, appErrors.ErrTimeOverlap.Code, appErrors.ErrTimeOverlap.Status, conflict.Error())
	}

	if candidate.RoomName() == "" {
		return nil
	}
	for _, existing := range roomSlots {
		if sameSlot(candidate, existing) || !candidate.SameRoom(existing) || !candidate.Overlaps(existing) {
			continue
		}
		conflict := &models.SlotConflictError{Conflicting: existing, Room: true}
		return appErrors.Wrap(conflict, appErrors.ErrRoomConflict.Code, appErrors.ErrRoomConflict.Status, conflict.Error())
	}
	return nil
}

func sameSlot(a, b models.TimeSlot) bool {
	return a.ID != "" && a.ID == b.ID
}
