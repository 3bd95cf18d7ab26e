package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReportCardStatus tracks report card publication.
type ReportCardStatus string

const (
	ReportCardInProgress ReportCardStatus = "in_progress"
	ReportCardClosed     ReportCardStatus = "closed"
	ReportCardShared     ReportCardStatus = "shared"
)

// Label returns the wording printed on bulletins.
func (s ReportCardStatus) Label() string {
	switch s {
	case ReportCardInProgress:
		return "en préparation"
	case ReportCardClosed:
		return "clôturé"
	case ReportCardShared:
		return "partagé"
	}
	return string(s)
}

// Mention is the qualitative label attached to an overall average.
type Mention string

const (
	MentionTresBien    Mention = "Très Bien"
	MentionBien        Mention = "Bien"
	MentionAssezBien   Mention = "Assez Bien"
	MentionPassable    Mention = "Passable"
	MentionInsuffisant Mention = "Insuffisant"
)

// SubjectAverages is stored as a JSONB snapshot on report cards.
type SubjectAverages []SubjectAverage

// Scan implements sql.Scanner.
func (s *SubjectAverages) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// Value implements driver.Valuer.
func (s SubjectAverages) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// ReportCard summarises a student's results for a period.
// Aggregate fields stay nil while the period is open.
type ReportCard struct {
	ID                string           `db:"id" json:"id"`
	StudentID         string           `db:"student_id" json:"eleve_id"`
	ClassID           string           `db:"class_id" json:"classe_id"`
	PeriodID          string           `db:"period_id" json:"periode_id"`
	SchoolYear        string           `db:"school_year" json:"annee_scolaire"`
	Semester          int              `db:"semester" json:"semestre"`
	Subjects          SubjectAverages  `db:"subjects" json:"matieres"`
	OverallAverage    *float64         `db:"overall_average" json:"moyenne_generale"`
	Rank              *int             `db:"rank" json:"rang"`
	ClassSize         int              `db:"class_size" json:"effectif"`
	Mention           *Mention         `db:"mention" json:"mention"`
	Passed            *bool            `db:"passed" json:"reussi"`
	PromotionEligible *bool            `db:"promotion_eligible" json:"promotion_eligible,omitempty"`
	Status            ReportCardStatus `db:"status" json:"statut"`
	StatusLabel       string           `db:"-" json:"statut_libelle"`
	GeneratedAt       time.Time        `db:"generated_at" json:"generated_at"`
	SharedAt          *time.Time       `db:"shared_at" json:"shared_at,omitempty"`
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	}
	return fmt.Errorf("unsupported json source %T", src)
}
