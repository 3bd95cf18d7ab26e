package models

import "time"

// CourseStatus describes whether a course can still receive assignments.
type CourseStatus string

const (
	CourseStatusPlanned   CourseStatus = "planned"
	CourseStatusActive    CourseStatus = "active"
	CourseStatusCancelled CourseStatus = "cancelled"
	CourseStatusFinished  CourseStatus = "finished"
)

// Valid reports whether the status is known.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusPlanned, CourseStatusActive, CourseStatusCancelled, CourseStatusFinished:
		return true
	}
	return false
}

// Course is a unit of instruction in one subject for one level, with a weekly hour budget.
type Course struct {
	ID               string       `db:"id" json:"id"`
	Title            string       `db:"title" json:"titre"`
	SubjectID        string       `db:"subject_id" json:"matiere_id"`
	Level            string       `db:"level" json:"niveau"`
	WeeklyHourBudget float64      `db:"weekly_hour_budget" json:"heures_par_semaine"`
	Coefficient      float64      `db:"coefficient" json:"coefficient"`
	Status           CourseStatus `db:"status" json:"statut"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}

// Assignable reports whether new assignments may reference the course.
func (c Course) Assignable() bool {
	return c.Status != CourseStatusCancelled && c.Status != CourseStatusFinished
}

// CourseFilter captures filtering options for listing courses.
type CourseFilter struct {
	SubjectID string
	Level     string
	Status    CourseStatus
	Search    string
	Page      int
	PageSize  int
}
