package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

// EnrollmentRepository reads class rosters.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListActiveStudentIDs returns the students actively enrolled in a class for a school year.
func (r *EnrollmentRepository) ListActiveStudentIDs(ctx context.Context, classID, schoolYear string) ([]string, error) {
	const query = `SELECT student_id FROM enrollments WHERE class_id = $1 AND school_year = $2 AND status = $3 ORDER BY student_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, classID, schoolYear, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list class roster: %w", err)
	}
	return ids, nil
}

// FindActiveByStudent returns the active enrollment of a student for a school year.
func (r *EnrollmentRepository) FindActiveByStudent(ctx context.Context, studentID, schoolYear string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, class_id, school_year, joined_at, left_at, status FROM enrollments
WHERE student_id = $1 AND school_year = $2 AND status = $3 LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, schoolYear, models.EnrollmentStatusActive); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
