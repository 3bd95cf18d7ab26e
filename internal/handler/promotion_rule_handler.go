package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/service"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/response"
)

type promotionRuleService interface {
	GetActive(ctx context.Context) (*models.PromotionRule, error)
	SetActive(ctx context.Context, req service.SetPromotionRuleRequest, actor *models.JWTClaims) (*models.PromotionRule, error)
	List(ctx context.Context) ([]models.PromotionRule, error)
	Evaluate(ctx context.Context, req service.EvaluateRuleRequest) (*service.RuleEvaluation, error)
}

// PromotionRuleHandler exposes the promotion rule repository.
type PromotionRuleHandler struct {
	service promotionRuleService
}

// NewPromotionRuleHandler constructs a promotion rule handler.
func NewPromotionRuleHandler(svc promotionRuleService) *PromotionRuleHandler {
	return &PromotionRuleHandler{service: svc}
}

// GetActive godoc
// @Summary Get the active promotion rule
// @Tags PromotionRules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /promotion-rules/active [get]
func (h *PromotionRuleHandler) GetActive(c *gin.Context) {
	rule, err := h.service.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rule)
}

// SetActive godoc
// @Summary Replace the active promotion rule
// @Tags PromotionRules
// @Accept json
// @Produce json
// @Param payload body service.SetPromotionRuleRequest true "Rule payload"
// @Success 200 {object} response.Envelope
// @Router /promotion-rules/active [put]
func (h *PromotionRuleHandler) SetActive(c *gin.Context) {
	var req service.SetPromotionRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.service.SetActive(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rule)
}

// List godoc
// @Summary List promotion rule history
// @Tags PromotionRules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /promotion-rules [get]
func (h *PromotionRuleHandler) List(c *gin.Context) {
	rules, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rules)
}

// Evaluate godoc
// @Summary Check a student profile against the active rule
// @Tags PromotionRules
// @Accept json
// @Produce json
// @Param payload body service.EvaluateRuleRequest true "Average and supplementary values"
// @Success 200 {object} response.Envelope
// @Router /promotion-rules/evaluate [post]
func (h *PromotionRuleHandler) Evaluate(c *gin.Context) {
	var req service.EvaluateRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Evaluate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
