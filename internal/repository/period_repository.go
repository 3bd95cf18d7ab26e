package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

const periodColumns = "id, school_year, semester, start_date, end_date, closed, closed_at, closed_by, created_at"

// PeriodRepository handles persistence for grading periods.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository instantiates a period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// List returns periods ordered by school year and semester.
func (r *PeriodRepository) List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, error) {
	query := "SELECT " + periodColumns + " FROM periods WHERE 1=1"
	var conditions []string
	var args []interface{}
	if filter.SchoolYear != "" {
		conditions = append(conditions, fmt.Sprintf("school_year = $%d", len(args)+1))
		args = append(args, filter.SchoolYear)
	}
	if filter.Closed != nil {
		conditions = append(conditions, fmt.Sprintf("closed = $%d", len(args)+1))
		args = append(args, *filter.Closed)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY school_year DESC, semester ASC"

	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

// FindByID loads a period by identifier.
func (r *PeriodRepository) FindByID(ctx context.Context, id string) (*models.Period, error) {
	var period models.Period
	if err := r.db.GetContext(ctx, &period, "SELECT "+periodColumns+" FROM periods WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &period, nil
}

// ExistsBySemester checks whether the semester of a school year is already defined.
func (r *PeriodRepository) ExistsBySemester(ctx context.Context, schoolYear string, semester int) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM periods WHERE school_year = $1 AND semester = $2 LIMIT 1", schoolYear, semester)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check period uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a new period.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	if period.CreatedAt.IsZero() {
		period.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO periods (id, school_year, semester, start_date, end_date, closed, closed_at, closed_by, created_at)
VALUES (:id, :school_year, :semester, :start_date, :end_date, :closed, :closed_at, :closed_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	return nil
}

// Close marks the period closed. Already closed periods keep their original stamp.
func (r *PeriodRepository) Close(ctx context.Context, id, closedBy string, at time.Time) error {
	const query = `UPDATE periods SET closed = TRUE, closed_at = $2, closed_by = $3 WHERE id = $1 AND closed = FALSE`
	if _, err := r.db.ExecContext(ctx, query, id, at, closedBy); err != nil {
		return fmt.Errorf("close period: %w", err)
	}
	return nil
}
