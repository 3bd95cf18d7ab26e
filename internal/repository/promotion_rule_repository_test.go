package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

var promotionRuleRowColumns = []string{"id", "minimum_average", "conditions", "active", "created_by", "created_at", "activated_at"}

func TestPromotionRuleRepositoryActivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPromotionRuleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(promotionRuleLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE promotion_rules SET active = FALSE WHERE active = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO promotion_rules").
		WithArgs(sqlmock.AnyArg(), 12.0, []byte(`{"conduite":10}`), true, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rule := &models.PromotionRule{MinimumAverage: 12, Conditions: models.RuleConditions{"conduite": 10}}
	require.NoError(t, repo.Activate(context.Background(), rule))
	assert.True(t, rule.Active)
	assert.NotEmpty(t, rule.ID)
	assert.NotNil(t, rule.ActivatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRuleRepositoryEnsureActiveReturnsExisting(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPromotionRuleRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM promotion_rules WHERE active = TRUE").
		WillReturnRows(sqlmock.NewRows(promotionRuleRowColumns).AddRow("rule-1", 11.5, []byte(`{}`), true, nil, now, now))
	mock.ExpectCommit()

	rule, err := repo.EnsureActive(context.Background(), models.PromotionRule{MinimumAverage: 10})
	require.NoError(t, err)
	assert.Equal(t, "rule-1", rule.ID)
	assert.Equal(t, 11.5, rule.MinimumAverage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromotionRuleRepositoryEnsureActiveCreatesFallback(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPromotionRuleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM promotion_rules WHERE active = TRUE").
		WillReturnRows(sqlmock.NewRows(promotionRuleRowColumns))
	mock.ExpectExec("INSERT INTO promotion_rules").
		WithArgs(sqlmock.AnyArg(), 10.0, []byte(`{}`), true, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rule, err := repo.EnsureActive(context.Background(), models.PromotionRule{MinimumAverage: 10})
	require.NoError(t, err)
	assert.True(t, rule.Active)
	assert.Empty(t, rule.Conditions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
