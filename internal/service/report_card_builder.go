package service

import (
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

// PassingAverage is the overall average from which a student passes the period.
const PassingAverage = 10.0

// BuildReportCard assembles the card of one student. roster holds the overall
// average of every student of the class, nil for students without any
// evaluated subject. Until the period is closed, or while the student has no
// overall average, the card stays in progress and withholds every aggregate.
func BuildReportCard(period models.Period, subjects []models.SubjectAverage, roster []*float64) models.ReportCard {
	card := models.ReportCard{
		PeriodID:   period.ID,
		SchoolYear: period.SchoolYear,
		Semester:   period.Semester,
		Subjects:   models.SubjectAverages(subjects),
		ClassSize:  len(roster),
		Status:     models.ReportCardInProgress,
	}
	if card.Subjects == nil {
		card.Subjects = models.SubjectAverages{}
	}

	overall := ComputePeriodAverage(subjects)
	if !period.Closed || overall == nil {
		card.StatusLabel = card.Status.Label()
		return card
	}

	rank := Rank(*overall, roster)
	mention := MentionFor(*overall)
	passed := models.GradeAtLeast(*overall, PassingAverage)
	if card.ClassSize < rank {
		card.ClassSize = rank
	}

	card.OverallAverage = overall
	card.Rank = &rank
	card.Mention = &mention
	card.Passed = &passed
	card.Status = models.ReportCardClosed
	card.StatusLabel = card.Status.Label()
	return card
}

// Rank applies standard competition ranking: one plus the number of roster
// averages strictly greater than average. Averages are compared at full
// precision, so 12.004 and 12.001 do not tie. Tied students share a rank and the
// following rank is skipped.
func Rank(average float64, roster []*float64) int {
	rank := 1
	for _, other := range roster {
		if other != nil && models.GradeAbove(*other, average) {
			rank++
		}
	}
	return rank
}

// MentionFor maps an overall average to its mention. Lower bounds are inclusive.
func MentionFor(average float64) models.Mention {
	switch {
	case models.GradeAtLeast(average, 16):
		return models.MentionTresBien
	case models.GradeAtLeast(average, 14):
		return models.MentionBien
	case models.GradeAtLeast(average, 12):
		return models.MentionAssezBien
	case models.GradeAtLeast(average, 10):
		return models.MentionPassable
	}
	return models.MentionInsuffisant
}
