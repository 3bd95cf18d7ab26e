package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/database"
)

// promotionRuleLockKey namespaces the advisory lock serialising rule activation.
const promotionRuleLockKey = 0x70726f6d

const promotionRuleColumns = "id, minimum_average, conditions, active, created_by, created_at, activated_at"

// PromotionRuleRepository persists promotion rules. A partial unique index on
// (active) WHERE active guarantees a single active rule.
type PromotionRuleRepository struct {
	db *sqlx.DB
}

// NewPromotionRuleRepository constructs the repository.
func NewPromotionRuleRepository(db *sqlx.DB) *PromotionRuleRepository {
	return &PromotionRuleRepository{db: db}
}

// FindActive returns the active rule or sql.ErrNoRows.
func (r *PromotionRuleRepository) FindActive(ctx context.Context) (*models.PromotionRule, error) {
	var rule models.PromotionRule
	if err := r.db.GetContext(ctx, &rule, "SELECT "+promotionRuleColumns+" FROM promotion_rules WHERE active = TRUE LIMIT 1"); err != nil {
		return nil, err
	}
	return &rule, nil
}

// List returns every rule, newest first.
func (r *PromotionRuleRepository) List(ctx context.Context) ([]models.PromotionRule, error) {
	var rules []models.PromotionRule
	if err := r.db.SelectContext(ctx, &rules, "SELECT "+promotionRuleColumns+" FROM promotion_rules ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list promotion rules: %w", err)
	}
	return rules, nil
}

// EnsureActive returns the active rule, inserting and activating fallback when none exists.
func (r *PromotionRuleRepository) EnsureActive(ctx context.Context, fallback models.PromotionRule) (*models.PromotionRule, error) {
	var result models.PromotionRule
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockPromotionRules(ctx, tx); err != nil {
			return err
		}
		err := tx.GetContext(ctx, &result, "SELECT "+promotionRuleColumns+" FROM promotion_rules WHERE active = TRUE LIMIT 1")
		if err == nil {
			return nil
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("load active promotion rule: %w", err)
		}
		result = fallback
		return insertActiveRule(ctx, tx, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Activate stores rule as a new rule version and makes it the only active one.
func (r *PromotionRuleRepository) Activate(ctx context.Context, rule *models.PromotionRule) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockPromotionRules(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE promotion_rules SET active = FALSE WHERE active = TRUE"); err != nil {
			return fmt.Errorf("deactivate promotion rules: %w", err)
		}
		return insertActiveRule(ctx, tx, rule)
	})
}

func lockPromotionRules(ctx context.Context, tx *sqlx.Tx) error {
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", promotionRuleLockKey); err != nil {
		return fmt.Errorf("lock promotion rules: %w", err)
	}
	return nil
}

func insertActiveRule(ctx context.Context, tx *sqlx.Tx, rule *models.PromotionRule) error {
	now := time.Now().UTC()
	rule.ID = uuid.NewString()
	rule.Active = true
	rule.CreatedAt = now
	rule.ActivatedAt = &now
	if rule.Conditions == nil {
		rule.Conditions = models.RuleConditions{}
	}
	const query = `INSERT INTO promotion_rules (id, minimum_average, conditions, active, created_by, created_at, activated_at)
VALUES (:id, :minimum_average, :conditions, :active, :created_by, :created_at, :activated_at)`
	if _, err := tx.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("insert promotion rule: %w", err)
	}
	return nil
}
