package models

import "time"

// Class represents a group of students following the same timetable.
type Class struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"nom"`
	Level           string    `db:"level" json:"niveau"`
	SchoolYear      string    `db:"school_year" json:"annee_scolaire"`
	ScheduleVersion int64     `db:"schedule_version" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ClassSubject is a subject taught to a class through a non-cancelled assignment,
// with the coefficient of its course.
type ClassSubject struct {
	SubjectID   string  `db:"subject_id" json:"matiere_id"`
	SubjectName string  `db:"subject_name" json:"matiere"`
	Coefficient float64 `db:"coefficient" json:"coefficient"`
}
