package models

import "time"

// Period is an academic grading period: one semester of a school year.
type Period struct {
	ID         string     `db:"id" json:"id"`
	SchoolYear string     `db:"school_year" json:"annee_scolaire"`
	Semester   int        `db:"semester" json:"semestre"`
	StartDate  time.Time  `db:"start_date" json:"date_debut"`
	EndDate    time.Time  `db:"end_date" json:"date_fin"`
	Closed     bool       `db:"closed" json:"cloture"`
	ClosedAt   *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	ClosedBy   *string    `db:"closed_by" json:"closed_by,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// PeriodFilter narrows period listings.
type PeriodFilter struct {
	SchoolYear string
	Closed     *bool
}
