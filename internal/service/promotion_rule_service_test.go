package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

type memoryRuleRepo struct {
	mu      sync.Mutex
	rules   []models.PromotionRule
	inserts int
}

func (r *memoryRuleRepo) FindActive(ctx context.Context) (*models.PromotionRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range r.rules {
		if rule.Active {
			clone := rule
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryRuleRepo) List(ctx context.Context) ([]models.PromotionRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.PromotionRule{}, r.rules...), nil
}

func (r *memoryRuleRepo) EnsureActive(ctx context.Context, fallback models.PromotionRule) (*models.PromotionRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range r.rules {
		if rule.Active {
			clone := rule
			return &clone, nil
		}
	}
	r.insert(&fallback)
	return &fallback, nil
}

func (r *memoryRuleRepo) Activate(ctx context.Context, rule *models.PromotionRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rules {
		r.rules[i].Active = false
	}
	r.insert(rule)
	return nil
}

func (r *memoryRuleRepo) insert(rule *models.PromotionRule) {
	r.inserts++
	now := time.Now().UTC()
	rule.ID = fmt.Sprintf("rule-%d", r.inserts)
	rule.Active = true
	rule.CreatedAt = now
	rule.ActivatedAt = &now
	r.rules = append(r.rules, *rule)
}

func (r *memoryRuleRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, rule := range r.rules {
		if rule.Active {
			count++
		}
	}
	return count
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]interface{}{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch target := dest.(type) {
	case *models.PromotionRule:
		*target = value.(models.PromotionRule)
	case *models.ReportCard:
		*target = value.(models.ReportCard)
	}
	return nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case *models.PromotionRule:
		c.entries[key] = *v
	case *models.ReportCard:
		c.entries[key] = *v
	default:
		c.entries[key] = value
	}
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

var adminActor = &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}

func newRuleService(repo *memoryRuleRepo) *PromotionRuleService {
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	return NewPromotionRuleService(repo, cache, nil, time.Minute, 10, nil, nil)
}

func TestPromotionRuleGetActiveCreatesDefault(t *testing.T) {
	repo := &memoryRuleRepo{}
	svc := newRuleService(repo)

	rule, err := svc.GetActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, rule.MinimumAverage)
	assert.Empty(t, rule.Conditions)
	assert.True(t, rule.Active)

	again, err := svc.GetActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rule.ID, again.ID)
	assert.Equal(t, 1, repo.inserts)
}

func TestPromotionRuleConcurrentFirstReadCreatesOneDefault(t *testing.T) {
	repo := &memoryRuleRepo{}
	svc := newRuleService(repo)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetActive(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.inserts)
	assert.Equal(t, 1, repo.activeCount())
}

func TestPromotionRuleSetActiveReplacesRule(t *testing.T) {
	repo := &memoryRuleRepo{}
	svc := newRuleService(repo)
	ctx := context.Background()

	_, err := svc.GetActive(ctx)
	require.NoError(t, err)

	rule, err := svc.SetActive(ctx, SetPromotionRuleRequest{
		MinimumAverage: 11,
		Conditions:     models.RuleConditions{"assiduite": 80},
	}, adminActor)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", *rule.CreatedBy)

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, rule.ID, active.ID)
	assert.Equal(t, 11.0, active.MinimumAverage)
	assert.Equal(t, 1, repo.activeCount())

	history, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestPromotionRuleSetActiveValidation(t *testing.T) {
	svc := newRuleService(&memoryRuleRepo{})
	ctx := context.Background()

	_, err := svc.SetActive(ctx, SetPromotionRuleRequest{MinimumAverage: 10}, &models.JWTClaims{UserID: "t", Role: models.RoleTeacher})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.SetActive(ctx, SetPromotionRuleRequest{MinimumAverage: 25}, adminActor)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.SetActive(ctx, SetPromotionRuleRequest{MinimumAverage: 10, Conditions: models.RuleConditions{" ": 1}}, adminActor)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.SetActive(ctx, SetPromotionRuleRequest{MinimumAverage: 10}, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestPromotionRuleConcurrentSetActiveKeepsSingleActive(t *testing.T) {
	repo := &memoryRuleRepo{}
	svc := newRuleService(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := svc.SetActive(ctx, SetPromotionRuleRequest{MinimumAverage: float64(8 + i%5)}, adminActor)
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			rule, err := svc.GetActive(ctx)
			if assert.NoError(t, err) {
				assert.True(t, rule.Active)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.activeCount())
	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	served, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, active.ID, served.ID)
}

func TestRuleSatisfiedBy(t *testing.T) {
	rule := models.PromotionRule{MinimumAverage: 10, Conditions: models.RuleConditions{"assiduite": 80, "conduite": 12}}

	assert.True(t, RuleSatisfiedBy(rule, 10, map[string]float64{"assiduite": 80, "conduite": 15}))
	assert.False(t, RuleSatisfiedBy(rule, 9.99, map[string]float64{"assiduite": 95, "conduite": 15}))
	assert.False(t, RuleSatisfiedBy(rule, 14, map[string]float64{"assiduite": 95}))
	assert.Equal(t, []string{"moyenne", "conduite"}, UnmetConditions(rule, 9, map[string]float64{"assiduite": 90, "conduite": 11}))

	plain := models.PromotionRule{MinimumAverage: 10}
	assert.True(t, RuleSatisfiedBy(plain, 10, nil))
}

func TestPromotionRuleEvaluate(t *testing.T) {
	svc := newRuleService(&memoryRuleRepo{})
	result, err := svc.Evaluate(context.Background(), EvaluateRuleRequest{Average: 12.5})
	require.NoError(t, err)
	assert.True(t, result.Satisfied)
	assert.Empty(t, result.Unmet)

	_, err = svc.Evaluate(context.Background(), EvaluateRuleRequest{Average: 21})
	assert.True(t, appErrors.Is(err, appErrors.ErrOutOfRange))
}

func TestPromotionRuleConfirmActiveBypassesStaleCache(t *testing.T) {
	repo := &memoryRuleRepo{}
	svc := newRuleService(repo)
	ctx := context.Background()

	first, err := svc.SetActive(ctx, SetPromotionRuleRequest{MinimumAverage: 10}, adminActor)
	require.NoError(t, err)
	require.NoError(t, repo.Activate(ctx, &models.PromotionRule{MinimumAverage: 12, Conditions: models.RuleConditions{}}))

	stale, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stale.ID)

	confirmed, err := svc.ConfirmActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.0, confirmed.MinimumAverage)

	refreshed, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, confirmed.ID, refreshed.ID)
}

func TestPromotionRuleConfirmActiveCreatesDefault(t *testing.T) {
	repo := &memoryRuleRepo{}
	rule, err := newRuleService(repo).ConfirmActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, rule.MinimumAverage)
	assert.Equal(t, 1, repo.activeCount())
}
