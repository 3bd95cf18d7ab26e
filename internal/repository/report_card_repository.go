package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

const reportCardColumns = "id, student_id, class_id, period_id, school_year, semester, subjects, overall_average, rank, class_size, mention, passed, promotion_eligible, status, generated_at, shared_at"

// ReportCardRepository stores report card snapshots of closed periods.
type ReportCardRepository struct {
	db *sqlx.DB
}

// NewReportCardRepository constructs a report card repository.
func NewReportCardRepository(db *sqlx.DB) *ReportCardRepository {
	return &ReportCardRepository{db: db}
}

// Upsert writes the snapshot for (student, period). Shared cards are never overwritten;
// in that case the stored card is loaded into card instead.
func (r *ReportCardRepository) Upsert(ctx context.Context, card *models.ReportCard) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if card.GeneratedAt.IsZero() {
		card.GeneratedAt = time.Now().UTC()
	}

	const query = `INSERT INTO report_cards (id, student_id, class_id, period_id, school_year, semester, subjects, overall_average, rank, class_size, mention, passed, promotion_eligible, status, generated_at, shared_at)
VALUES (:id, :student_id, :class_id, :period_id, :school_year, :semester, :subjects, :overall_average, :rank, :class_size, :mention, :passed, :promotion_eligible, :status, :generated_at, :shared_at)
ON CONFLICT (student_id, period_id) DO UPDATE
SET class_id = EXCLUDED.class_id,
    subjects = EXCLUDED.subjects,
    overall_average = EXCLUDED.overall_average,
    rank = EXCLUDED.rank,
    class_size = EXCLUDED.class_size,
    mention = EXCLUDED.mention,
    passed = EXCLUDED.passed,
    promotion_eligible = EXCLUDED.promotion_eligible,
    generated_at = EXCLUDED.generated_at
WHERE report_cards.status <> 'shared'
RETURNING ` + reportCardColumns

	rows, err := r.db.NamedQueryContext(ctx, query, card)
	if err != nil {
		return fmt.Errorf("upsert report card: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.StructScan(card); err != nil {
			return fmt.Errorf("scan report card: %w", err)
		}
		return rows.Err()
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("upsert report card: %w", err)
	}
	_ = rows.Close()

	stored, err := r.FindByStudentPeriod(ctx, card.StudentID, card.PeriodID)
	if err != nil {
		return fmt.Errorf("load shared report card: %w", err)
	}
	*card = *stored
	return nil
}

// FindByID loads a stored report card.
func (r *ReportCardRepository) FindByID(ctx context.Context, id string) (*models.ReportCard, error) {
	var card models.ReportCard
	if err := r.db.GetContext(ctx, &card, "SELECT "+reportCardColumns+" FROM report_cards WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByStudentPeriod loads the stored card of a student for a period.
func (r *ReportCardRepository) FindByStudentPeriod(ctx context.Context, studentID, periodID string) (*models.ReportCard, error) {
	var card models.ReportCard
	if err := r.db.GetContext(ctx, &card, "SELECT "+reportCardColumns+" FROM report_cards WHERE student_id = $1 AND period_id = $2", studentID, periodID); err != nil {
		return nil, err
	}
	return &card, nil
}

// ListByClassPeriod returns stored cards of a class ordered by rank.
func (r *ReportCardRepository) ListByClassPeriod(ctx context.Context, classID, periodID string) ([]models.ReportCard, error) {
	query := "SELECT " + reportCardColumns + " FROM report_cards WHERE class_id = $1 AND period_id = $2 ORDER BY rank ASC NULLS LAST, student_id ASC"
	var cards []models.ReportCard
	if err := r.db.SelectContext(ctx, &cards, query, classID, periodID); err != nil {
		return nil, fmt.Errorf("list report cards: %w", err)
	}
	return cards, nil
}

// MarkShared moves a closed card to shared. It reports false when the card was not closed.
func (r *ReportCardRepository) MarkShared(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE report_cards SET status = 'shared', shared_at = $2 WHERE id = $1 AND status = 'closed'", id, at)
	if err != nil {
		return false, fmt.Errorf("share report card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("share report card: %w", err)
	}
	return affected > 0, nil
}
