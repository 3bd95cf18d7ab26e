package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	for raw, want := range map[string]Weekday{
		"lundi":     Monday,
		" Samedi ":  Saturday,
		"wednesday": Wednesday,
		"FRIDAY":    Friday,
	} {
		day, ok := ParseWeekday(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, day)
	}
	_, ok := ParseWeekday("dimanche")
	assert.False(t, ok)
	assert.Less(t, Monday.Order(), Saturday.Order())
}

func TestClockTime(t *testing.T) {
	c, err := ParseClockTime("08:30")
	require.NoError(t, err)
	assert.Equal(t, NewClockTime(8, 30), c)

	c, err = ParseClockTime("14:05:59")
	require.NoError(t, err)
	assert.Equal(t, "14:05", c.String())

	_, err = ParseClockTime("25:00")
	assert.Error(t, err)

	var decoded struct {
		At ClockTime `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"09:15"}`), &decoded))
	assert.Equal(t, NewClockTime(9, 15), decoded.At)
	out, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"09:15"}`, string(out))

	var scanned ClockTime
	require.NoError(t, scanned.Scan(time.Date(0, 1, 1, 10, 45, 0, 0, time.UTC)))
	assert.Equal(t, NewClockTime(10, 45), scanned)
	require.NoError(t, scanned.Scan([]byte("07:00:00")))
	assert.Equal(t, NewClockTime(7, 0), scanned)
	value, err := scanned.Value()
	require.NoError(t, err)
	assert.Equal(t, "07:00:00", value)
}

func TestTimeSlotOverlapAndRooms(t *testing.T) {
	room := func(name string) *string { return &name }
	a := TimeSlot{Day: Monday, Start: NewClockTime(8, 0), End: NewClockTime(10, 0), Room: room("B12 ")}
	touching := TimeSlot{Day: Monday, Start: NewClockTime(10, 0), End: NewClockTime(11, 0)}
	inside := TimeSlot{Day: Monday, Start: NewClockTime(9, 0), End: NewClockTime(9, 30), Room: room("b12")}
	otherDay := TimeSlot{Day: Tuesday, Start: NewClockTime(8, 0), End: NewClockTime(10, 0)}

	assert.False(t, a.Overlaps(touching))
	assert.True(t, a.Overlaps(inside))
	assert.False(t, a.Overlaps(otherDay))
	assert.True(t, a.SameRoom(inside))
	assert.False(t, a.SameRoom(touching))
	assert.Equal(t, 120, a.Minutes())
}

func TestParseEvaluationCategory(t *testing.T) {
	for raw, want := range map[string]EvaluationCategory{
		"Devoir":      CategoryContinuous,
		"TP":          CategoryContinuous,
		"continuous":  CategoryContinuous,
		"Composition": CategoryFormal,
		"examen":      CategoryFormal,
	} {
		got, err := ParseEvaluationCategory(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
	_, err := ParseEvaluationCategory("oral")
	assert.Error(t, err)

	var category EvaluationCategory
	assert.Error(t, json.Unmarshal([]byte(`"oral"`), &category))
	require.NoError(t, json.Unmarshal([]byte(`"Composition"`), &category))
	assert.Equal(t, CategoryFormal, category)
}

func TestAssignmentStatusTransitions(t *testing.T) {
	assert.True(t, AssignmentPlanned.CanTransitionTo(AssignmentActive))
	assert.True(t, AssignmentPlanned.CanTransitionTo(AssignmentCancelled))
	assert.False(t, AssignmentPlanned.CanTransitionTo(AssignmentFinished))
	assert.True(t, AssignmentActive.CanTransitionTo(AssignmentFinished))
	assert.False(t, AssignmentFinished.CanTransitionTo(AssignmentActive))
	assert.False(t, AssignmentCancelled.CanTransitionTo(AssignmentPlanned))
	assert.True(t, AssignmentCancelled.Terminal())
	assert.False(t, AssignmentFinished.Live())
}

func TestRuleConditionsRoundTrip(t *testing.T) {
	value, err := RuleConditions{"math": 12}.Value()
	require.NoError(t, err)

	var scanned RuleConditions
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, RuleConditions{"math": 12}, scanned)
}

func TestDisplayGradeTruncates(t *testing.T) {
	assert.Equal(t, 9.99, DisplayGrade(29.99/3))
	assert.Equal(t, 10.0, DisplayGrade(10))
	assert.Equal(t, 0.29, DisplayGrade(0.29))
	assert.Equal(t, 14.5, DisplayGrade(14.5))
	assert.Equal(t, 10.66, DisplayGrade(32.0/3))
}

func TestGradeComparisonsAbsorbFloatNoise(t *testing.T) {
	noisy := (9.7 + 2*10.15) / 3
	assert.True(t, GradeAtLeast(noisy, 10))
	assert.False(t, GradeAtLeast(29.99/3, 10))
	assert.False(t, GradeAbove(noisy, 10))
	assert.True(t, GradeAbove(12.004, 12.001))
}

func TestReportCardPresentedKeepsOriginal(t *testing.T) {
	overall := 29.99 / 3
	continuous := 9.99
	card := ReportCard{
		OverallAverage: &overall,
		Subjects:       SubjectAverages{{SubjectID: "math", Average: overall, ContinuousAverage: &continuous, Evaluated: true}},
	}
	presented := card.Presented()
	assert.Equal(t, 9.99, *presented.OverallAverage)
	assert.Equal(t, 9.99, presented.Subjects[0].Average)
	assert.Equal(t, 9.99, *presented.Subjects[0].ContinuousAverage)
	assert.InDelta(t, 29.99/3, *card.OverallAverage, 1e-12)
	assert.InDelta(t, 29.99/3, card.Subjects[0].Average, 1e-12)
}
