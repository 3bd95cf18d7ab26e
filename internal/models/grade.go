package models

import "math"

// GradeTolerance absorbs floating point noise when an average is compared to
// a threshold or to another average.
const GradeTolerance = 1e-9

// GradeAtLeast reports whether average reaches threshold.
func GradeAtLeast(average, threshold float64) bool {
	return average >= threshold-GradeTolerance
}

// GradeAbove reports whether a is strictly greater than b beyond float noise.
func GradeAbove(a, b float64) bool {
	return a > b+GradeTolerance
}

// DisplayGrade truncates an average to two decimals. Truncation keeps a
// printed grade on the same side of every threshold as the average itself:
// 9.996 prints as 9.99, never as 10.00.
func DisplayGrade(v float64) float64 {
	return math.Floor(v*100+GradeTolerance*100) / 100
}

func displayGradePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	d := DisplayGrade(*v)
	return &d
}

// Presented returns a copy of the subject average with grades truncated for display.
func (s SubjectAverage) Presented() SubjectAverage {
	s.Average = DisplayGrade(s.Average)
	s.ContinuousAverage = displayGradePtr(s.ContinuousAverage)
	s.FormalAverage = displayGradePtr(s.FormalAverage)
	return s
}

// Presented returns a copy of the averages with grades truncated for display.
func (s SubjectAverages) Presented() SubjectAverages {
	if s == nil {
		return nil
	}
	out := make(SubjectAverages, len(s))
	for i, subject := range s {
		out[i] = subject.Presented()
	}
	return out
}

// Presented returns a copy of the card with grades truncated for display.
// Stored and cached cards keep full precision.
func (c ReportCard) Presented() ReportCard {
	c.Subjects = c.Subjects.Presented()
	c.OverallAverage = displayGradePtr(c.OverallAverage)
	return c
}
