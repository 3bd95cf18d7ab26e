package service

import "github.com/JulesBestDev176/isiportal-front-sub002/internal/models"

// GradingPolicy weights the continuous and formal categories of a subject.
// With WeightWithinCategory each evaluation coefficient also weighs its score
// inside its category; otherwise categories use a plain mean.
type GradingPolicy struct {
	ContinuousWeight     float64
	FormalWeight         float64
	WeightWithinCategory bool
}

// DefaultGradingPolicy counts formal evaluations twice as much as continuous ones.
func DefaultGradingPolicy() GradingPolicy {
	return GradingPolicy{ContinuousWeight: 1, FormalWeight: 2}
}

func (p GradingPolicy) normalized() GradingPolicy {
	if p.ContinuousWeight <= 0 {
		p.ContinuousWeight = 1
	}
	if p.FormalWeight <= 0 {
		p.FormalWeight = 2
	}
	return p
}

// ComputeSubjectAverage blends the category means of a subject. It returns
// (0, false) when no evaluation exists so callers can leave the subject out of
// the period average instead of counting a failing zero.
func ComputeSubjectAverage(evaluations []models.Evaluation, policy GradingPolicy) (float64, bool) {
	continuous, formal := categoryMeans(evaluations, policy)
	return blend(continuous, formal, policy)
}

// SummarizeSubject builds the SubjectAverage of one subject.
func SummarizeSubject(subjectID, subjectName string, coefficient float64, evaluations []models.Evaluation, policy GradingPolicy) models.SubjectAverage {
	continuous, formal := categoryMeans(evaluations, policy)
	avg, evaluated := blend(continuous, formal, policy)
	summary := models.SubjectAverage{
		SubjectID:       subjectID,
		SubjectName:     subjectName,
		Coefficient:     coefficient,
		Average:         avg,
		Evaluated:       evaluated,
		EvaluationCount: len(evaluations),
	}
	summary.ContinuousAverage = continuous
	summary.FormalAverage = formal
	return summary
}

// ComputePeriodAverage returns the coefficient-weighted mean of evaluated
// subjects, or nil when no subject has been evaluated yet. The result keeps full
// precision; rounding belongs to presentation.
func ComputePeriodAverage(subjects []models.SubjectAverage) *float64 {
	var weighted, coefficients float64
	for _, subject := range subjects {
		if !subject.Evaluated || subject.Coefficient <= 0 {
			continue
		}
		weighted += subject.Average * subject.Coefficient
		coefficients += subject.Coefficient
	}
	if coefficients == 0 {
		return nil
	}
	avg := weighted / coefficients
	return &avg
}

func categoryMeans(evaluations []models.Evaluation, policy GradingPolicy) (*float64, *float64) {
	var cSum, cWeight, fSum, fWeight float64
	for _, evaluation := range evaluations {
		weight := 1.0
		if policy.WeightWithinCategory && evaluation.Coefficient > 0 {
			weight = evaluation.Coefficient
		}
		switch evaluation.Category {
		case models.CategoryContinuous:
			cSum += evaluation.Score * weight
			cWeight += weight
		case models.CategoryFormal:
			fSum += evaluation.Score * weight
			fWeight += weight
		}
	}
	var continuous, formal *float64
	if cWeight > 0 {
		v := cSum / cWeight
		continuous = &v
	}
	if fWeight > 0 {
		v := fSum / fWeight
		formal = &v
	}
	return continuous, formal
}

func blend(continuous, formal *float64, policy GradingPolicy) (float64, bool) {
	policy = policy.normalized()
	switch {
	case continuous != nil && formal != nil:
		total := policy.ContinuousWeight + policy.FormalWeight
		return (*continuous*policy.ContinuousWeight + *formal*policy.FormalWeight) / total, true
	case continuous != nil:
		return *continuous, true
	case formal != nil:
		return *formal, true
	}
	return 0, false
}
