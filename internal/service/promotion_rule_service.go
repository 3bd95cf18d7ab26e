package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

const activePromotionRuleKey = "promotion_rules:active"

type promotionRuleRepository interface {
	FindActive(ctx context.Context) (*models.PromotionRule, error)
	List(ctx context.Context) ([]models.PromotionRule, error)
	EnsureActive(ctx context.Context, fallback models.PromotionRule) (*models.PromotionRule, error)
	Activate(ctx context.Context, rule *models.PromotionRule) error
}

// SetPromotionRuleRequest replaces the active promotion rule.
type SetPromotionRuleRequest struct {
	MinimumAverage float64               `json:"moyenne_minimale" validate:"gte=0,lte=20"`
	Conditions     models.RuleConditions `json:"conditions_supplementaires"`
}

// EvaluateRuleRequest asks whether a student profile satisfies the active rule.
type EvaluateRuleRequest struct {
	Average       float64            `json:"moyenne"`
	Supplementary map[string]float64 `json:"valeurs_supplementaires"`
}

// RuleEvaluation reports the outcome of a rule check.
type RuleEvaluation struct {
	Rule      models.PromotionRule `json:"regle"`
	Satisfied bool                 `json:"satisfaite"`
	Unmet     []string             `json:"conditions_non_remplies"`
}

// PromotionRuleService exposes the single active promotion rule. Writers hold
// the lock exclusively so readers never observe a rule that is being replaced.
type PromotionRuleService struct {
	repo           promotionRuleRepository
	cache          *CacheService
	metrics        *MetricsService
	cacheTTL       time.Duration
	defaultMinimum float64
	validator      *validator.Validate
	logger         *zap.Logger

	mu sync.RWMutex
}

// NewPromotionRuleService constructs the rules service. defaultMinimum seeds the
// rule created when none has ever been activated.
func NewPromotionRuleService(
	repo promotionRuleRepository,
	cache *CacheService,
	metrics *MetricsService,
	cacheTTL time.Duration,
	defaultMinimum float64,
	validate *validator.Validate,
	logger *zap.Logger,
) *PromotionRuleService {
	if defaultMinimum <= 0 {
		defaultMinimum = PassingAverage
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionRuleService{
		repo:           repo,
		cache:          cache,
		metrics:        metrics,
		cacheTTL:       cacheTTL,
		defaultMinimum: defaultMinimum,
		validator:      validate,
		logger:         logger,
	}
}

// GetActive returns the active rule, creating the default one on first use.
func (s *PromotionRuleService) GetActive(ctx context.Context) (*models.PromotionRule, error) {
	s.mu.RLock()
	rule, err := s.readActive(ctx)
	s.mu.RUnlock()
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load promotion rule")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rule, err = s.repo.EnsureActive(ctx, models.PromotionRule{MinimumAverage: s.defaultMinimum, Conditions: models.RuleConditions{}})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create default promotion rule")
	}
	_ = s.cache.Set(ctx, activePromotionRuleKey, rule, s.cacheTTL)
	s.logger.Info("default promotion rule activated", zap.String("rule_id", rule.ID), zap.Float64("minimum_average", rule.MinimumAverage))
	return rule, nil
}

// ConfirmActive reads the active rule from the repository, bypassing the shared
// cache, and refreshes the cache with it. Promotion decisions use it so a rule
// activated by another instance is honoured even before the cached copy expires.
func (s *PromotionRuleService) ConfirmActive(ctx context.Context) (*models.PromotionRule, error) {
	s.mu.RLock()
	rule, err := s.repo.FindActive(ctx)
	s.mu.RUnlock()
	if errors.Is(err, sql.ErrNoRows) {
		return s.GetActive(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load promotion rule")
	}
	_ = s.cache.Set(ctx, activePromotionRuleKey, rule, s.cacheTTL)
	return rule, nil
}

// SetActive stores a new rule and makes it the only active one.
func (s *PromotionRuleService) SetActive(ctx context.Context, req SetPromotionRuleRequest, actor *models.JWTClaims) (*models.PromotionRule, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.IsAdministrator() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators may change the promotion rule")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid promotion rule payload")
	}
	conditions := make(models.RuleConditions, len(req.Conditions))
	for key, threshold := range req.Conditions {
		name := strings.TrimSpace(key)
		if name == "" || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid condition %q", key))
		}
		conditions[name] = threshold
	}

	rule := &models.PromotionRule{
		MinimumAverage: req.MinimumAverage,
		Conditions:     conditions,
		CreatedBy:      &actor.UserID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Activate(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate promotion rule")
	}
	if err := s.cache.Delete(ctx, activePromotionRuleKey); err == nil {
		_ = s.cache.Set(ctx, activePromotionRuleKey, rule, s.cacheTTL)
	}
	s.metrics.RecordRuleActivation()
	s.logger.Info("promotion rule activated",
		zap.String("rule_id", rule.ID),
		zap.Float64("minimum_average", rule.MinimumAverage),
		zap.Int("conditions", len(rule.Conditions)),
		zap.String("activated_by", actor.UserID))
	return rule, nil
}

// List returns the rule history, newest first.
func (s *PromotionRuleService) List(ctx context.Context) ([]models.PromotionRule, error) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list promotion rules")
	}
	return rules, nil
}

// Evaluate checks a student profile against the active rule.
func (s *PromotionRuleService) Evaluate(ctx context.Context, req EvaluateRuleRequest) (*RuleEvaluation, error) {
	if math.IsNaN(req.Average) || req.Average < minScore || req.Average > maxScore {
		return nil, appErrors.Clone(appErrors.ErrOutOfRange, fmt.Sprintf("average %.2f must be between %.0f and %.0f", req.Average, minScore, maxScore))
	}
	rule, err := s.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	unmet := UnmetConditions(*rule, req.Average, req.Supplementary)
	return &RuleEvaluation{Rule: *rule, Satisfied: len(unmet) == 0, Unmet: unmet}, nil
}

func (s *PromotionRuleService) readActive(ctx context.Context) (*models.PromotionRule, error) {
	var cached models.PromotionRule
	if hit, _ := s.cache.Get(ctx, activePromotionRuleKey, &cached); hit {
		return &cached, nil
	}
	rule, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, activePromotionRuleKey, rule, s.cacheTTL)
	return rule, nil
}

// RuleSatisfiedBy reports whether the average reaches the rule minimum and every
// supplementary condition is present and reached.
func RuleSatisfiedBy(rule models.PromotionRule, average float64, supplementary map[string]float64) bool {
	return len(UnmetConditions(rule, average, supplementary)) == 0
}

// UnmetConditions lists the failed checks; "moyenne" stands for the minimum average.
func UnmetConditions(rule models.PromotionRule, average float64, supplementary map[string]float64) []string {
	unmet := []string{}
	if !models.GradeAtLeast(average, rule.MinimumAverage) {
		unmet = append(unmet, "moyenne")
	}
	keys := make([]string, 0, len(rule.Conditions))
	for key := range rule.Conditions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, ok := supplementary[key]
		if !ok || !models.GradeAtLeast(value, rule.Conditions[key]) {
			unmet = append(unmet, key)
		}
	}
	return unmet
}
