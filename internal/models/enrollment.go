package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive      EnrollmentStatus = "ACTIVE"
	EnrollmentStatusTransferred EnrollmentStatus = "TRANSFERRED"
	EnrollmentStatusLeft        EnrollmentStatus = "LEFT"
)

// Enrollment captures a student's registration to a class for a school year.
// Active enrollments form the class roster used for ranking.
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"eleve_id"`
	ClassID    string           `db:"class_id" json:"classe_id"`
	SchoolYear string           `db:"school_year" json:"annee_scolaire"`
	JoinedAt   time.Time        `db:"joined_at" json:"joined_at"`
	LeftAt     *time.Time       `db:"left_at" json:"left_at,omitempty"`
	Status     EnrollmentStatus `db:"status" json:"status"`
}
