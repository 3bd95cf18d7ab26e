package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

const evaluationColumns = "id, student_id, subject_id, class_id, period_id, category, title, score, coefficient, evaluated_on, recorded_by, created_at, updated_at"

// EvaluationRepository persists raw evaluation scores.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs an evaluation repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// List returns evaluations matching the filter ordered by date.
func (r *EvaluationRepository) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	query := "SELECT " + evaluationColumns + " FROM evaluations WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.PeriodID != "" {
		conditions = append(conditions, fmt.Sprintf("period_id = $%d", len(args)+1))
		args = append(args, filter.PeriodID)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY evaluated_on ASC, created_at ASC"

	var evaluations []models.Evaluation
	if err := r.db.SelectContext(ctx, &evaluations, query, args...); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evaluations, nil
}

// FindByID loads an evaluation.
func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.GetContext(ctx, &evaluation, "SELECT "+evaluationColumns+" FROM evaluations WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// Create inserts an evaluation.
func (r *EvaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	if evaluation.ID == "" {
		evaluation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	evaluation.CreatedAt = now
	evaluation.UpdatedAt = now

	const query = `INSERT INTO evaluations (id, student_id, subject_id, class_id, period_id, category, title, score, coefficient, evaluated_on, recorded_by, created_at, updated_at)
VALUES (:id, :student_id, :subject_id, :class_id, :period_id, :category, :title, :score, :coefficient, :evaluated_on, :recorded_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, evaluation); err != nil {
		return fmt.Errorf("create evaluation: %w", err)
	}
	return nil
}

// Update persists score corrections.
func (r *EvaluationRepository) Update(ctx context.Context, evaluation *models.Evaluation) error {
	evaluation.UpdatedAt = time.Now().UTC()
	const query = `UPDATE evaluations SET category = :category, title = :title, score = :score, coefficient = :coefficient,
evaluated_on = :evaluated_on, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, evaluation); err != nil {
		return fmt.Errorf("update evaluation: %w", err)
	}
	return nil
}

// Delete removes an evaluation.
func (r *EvaluationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM evaluations WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	return nil
}
