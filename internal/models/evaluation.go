package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EvaluationCategory separates continuous assessment from formal exams.
type EvaluationCategory string

const (
	CategoryContinuous EvaluationCategory = "continuous"
	CategoryFormal     EvaluationCategory = "formal"
)

// ParseEvaluationCategory maps canonical names and the legacy free-text labels
// ("Devoir", "TP", "Composition", "Examen") to a category.
func ParseEvaluationCategory(raw string) (EvaluationCategory, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "continuous", "devoir", "tp", "interrogation", "controle continu":
		return CategoryContinuous, nil
	case "formal", "composition", "examen", "exam":
		return CategoryFormal, nil
	}
	return "", fmt.Errorf("unknown evaluation category %q", raw)
}

// UnmarshalJSON accepts legacy labels on input.
func (c *EvaluationCategory) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseEvaluationCategory(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Evaluation is one graded assessment of a student in a subject during a period.
type Evaluation struct {
	ID          string             `db:"id" json:"id"`
	StudentID   string             `db:"student_id" json:"eleve_id"`
	SubjectID   string             `db:"subject_id" json:"matiere_id"`
	ClassID     string             `db:"class_id" json:"classe_id"`
	PeriodID    string             `db:"period_id" json:"periode_id"`
	Category    EvaluationCategory `db:"category" json:"categorie"`
	Title       *string            `db:"title" json:"intitule,omitempty"`
	Score       float64            `db:"score" json:"note"`
	Coefficient float64            `db:"coefficient" json:"coefficient"`
	EvaluatedOn time.Time          `db:"evaluated_on" json:"date"`
	RecordedBy  string             `db:"recorded_by" json:"enseignant_id"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// EvaluationFilter narrows evaluation listings.
type EvaluationFilter struct {
	StudentID string
	SubjectID string
	ClassID   string
	PeriodID  string
	Category  EvaluationCategory
}

// SubjectAverage is the derived average of one subject for one student and period.
// Average is meaningful only when Evaluated is true.
type SubjectAverage struct {
	SubjectID         string   `json:"matiere_id"`
	SubjectName       string   `json:"matiere,omitempty"`
	Coefficient       float64  `json:"coefficient"`
	Average           float64  `json:"moyenne"`
	Evaluated         bool     `json:"evalue"`
	ContinuousAverage *float64 `json:"moyenne_continue,omitempty"`
	FormalAverage     *float64 `json:"moyenne_composition,omitempty"`
	EvaluationCount   int      `json:"nombre_evaluations"`
}
