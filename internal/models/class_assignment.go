package models

import "time"

// AssignmentStatus is the lifecycle state of a class assignment.
type AssignmentStatus string

const (
	AssignmentPlanned   AssignmentStatus = "planned"
	AssignmentActive    AssignmentStatus = "active"
	AssignmentFinished  AssignmentStatus = "finished"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Terminal reports whether the status rejects every further mutation.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentFinished || s == AssignmentCancelled
}

// Live reports whether the assignment still occupies the class timetable.
func (s AssignmentStatus) Live() bool {
	return s == AssignmentPlanned || s == AssignmentActive
}

// CanTransitionTo reports whether moving to next is allowed.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	switch s {
	case AssignmentPlanned:
		return next == AssignmentActive || next == AssignmentCancelled
	case AssignmentActive:
		return next == AssignmentFinished || next == AssignmentCancelled
	}
	return false
}

// ClassAssignment binds a course to a class for a period with weekly time slots.
type ClassAssignment struct {
	ID               string           `db:"id" json:"id"`
	CourseID         string           `db:"course_id" json:"cours_id"`
	ClassID          string           `db:"class_id" json:"classe_id"`
	SchoolYear       string           `db:"school_year" json:"annee_scolaire"`
	StartDate        time.Time        `db:"start_date" json:"date_debut"`
	EndDate          *time.Time       `db:"end_date" json:"date_fin,omitempty"`
	WeeklyHours      float64          `db:"weekly_hours" json:"heures_souhaitees"`
	TotalWeeklyHours float64          `db:"total_weekly_hours" json:"total_heures"`
	Status           AssignmentStatus `db:"status" json:"statut"`
	Progression      float64          `db:"progression" json:"progression"`
	Notes            *string          `db:"notes" json:"notes,omitempty"`
	Slots            []TimeSlot       `db:"-" json:"creneaux"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// ScheduledMinutes sums the duration of every slot.
func (a ClassAssignment) ScheduledMinutes() int {
	total := 0
	for _, slot := range a.Slots {
		total += slot.Minutes()
	}
	return total
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	CourseID   string
	ClassID    string
	SchoolYear string
	Status     AssignmentStatus
	Page       int
	PageSize   int
}
