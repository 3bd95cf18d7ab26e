package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

func slotAt(id string, day models.Weekday, startH, startM, endH, endM int) models.TimeSlot {
	return models.TimeSlot{
		ID:    id,
		Day:   day,
		Start: models.NewClockTime(startH, startM),
		End:   models.NewClockTime(endH, endM),
	}
}

func withRoom(slot models.TimeSlot, room string) models.TimeSlot {
	slot.Room = &room
	return slot
}

func TestValidateTimeSlotAcceptsTouchingBoundaries(t *testing.T) {
	first := slotAt("s1", models.Monday, 9, 0, 10, 0)
	second := slotAt("", models.Monday, 10, 0, 11, 0)
	before := slotAt("", models.Monday, 8, 0, 9, 0)

	assert.NoError(t, ValidateTimeSlot(second, []models.TimeSlot{first}, nil))
	assert.NoError(t, ValidateTimeSlot(before, []models.TimeSlot{first}, nil))
}

func TestValidateTimeSlotRejectsOverlap(t *testing.T) {
	existing := slotAt("s1", models.Tuesday, 9, 0, 11, 0)
	cases := []models.TimeSlot{
		slotAt("", models.Tuesday, 10, 0, 12, 0),
		slotAt("", models.Tuesday, 8, 0, 9, 30),
		slotAt("", models.Tuesday, 9, 30, 10, 0),
		slotAt("", models.Tuesday, 8, 0, 12, 0),
	}
	for _, candidate := range cases {
		err := ValidateTimeSlot(candidate, []models.TimeSlot{existing}, nil)
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrTimeOverlap))

		var conflict *models.SlotConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "s1", conflict.Conflicting.ID)
	}
}

func TestValidateTimeSlotIgnoresOtherDaysAndItself(t *testing.T) {
	existing := slotAt("s1", models.Wednesday, 9, 0, 11, 0)
	assert.NoError(t, ValidateTimeSlot(slotAt("", models.Thursday, 9, 0, 11, 0), []models.TimeSlot{existing}, nil))
	assert.NoError(t, ValidateTimeSlot(slotAt("s1", models.Wednesday, 10, 0, 12, 0), []models.TimeSlot{existing}, nil))
}

func TestValidateTimeSlotInvalidRangeCheckedFirst(t *testing.T) {
	existing := slotAt("s1", models.Friday, 9, 0, 11, 0)
	err := ValidateTimeSlot(slotAt("", models.Friday, 10, 0, 10, 0), []models.TimeSlot{existing}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidRange))

	err = ValidateTimeSlot(slotAt("", "SUNDAY", 12, 0, 10, 0), nil, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidRange))
}

func TestValidateTimeSlotRejectsUnknownDay(t *testing.T) {
	err := ValidateTimeSlot(slotAt("", "SUNDAY", 9, 0, 10, 0), nil, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidDay))
}

func TestValidateTimeSlotRoomConflict(t *testing.T) {
	booked := withRoom(slotAt("other", models.Monday, 14, 0, 16, 0), "Salle B12")
	candidate := withRoom(slotAt("", models.Monday, 15, 0, 17, 0), "salle b12")

	err := ValidateTimeSlot(candidate, nil, []models.TimeSlot{booked})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoomConflict))
	var conflict *models.SlotConflictError
	require.True(t, errors.As(err, &conflict))
	assert.True(t, conflict.Room)

	noRoom := slotAt("", models.Monday, 15, 0, 17, 0)
	assert.NoError(t, ValidateTimeSlot(noRoom, nil, []models.TimeSlot{booked}))

	otherRoom := withRoom(slotAt("", models.Monday, 15, 0, 17, 0), "A01")
	assert.NoError(t, ValidateTimeSlot(otherRoom, nil, []models.TimeSlot{booked}))
}

func TestValidateTimeSlotClassConflictWinsOverRoom(t *testing.T) {
	classSlot := slotAt("c1", models.Saturday, 8, 0, 10, 0)
	roomSlot := withRoom(slotAt("r1", models.Saturday, 8, 0, 10, 0), "Lab")
	candidate := withRoom(slotAt("", models.Saturday, 9, 0, 10, 0), "lab")

	err := ValidateTimeSlot(candidate, []models.TimeSlot{classSlot}, []models.TimeSlot{roomSlot})
	assert.True(t, appErrors.Is(err, appErrors.ErrTimeOverlap))
}
