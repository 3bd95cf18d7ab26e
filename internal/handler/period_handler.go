package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/service"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/response"
)

type periodService interface {
	List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, error)
	Get(ctx context.Context, id string) (*models.Period, error)
	Create(ctx context.Context, req service.CreatePeriodRequest) (*models.Period, error)
	Close(ctx context.Context, id string, actor *models.JWTClaims) (*models.Period, error)
}

// PeriodHandler exposes academic periods.
type PeriodHandler struct {
	service periodService
}

// NewPeriodHandler constructs a period handler.
func NewPeriodHandler(svc periodService) *PeriodHandler {
	return &PeriodHandler{service: svc}
}

// List godoc
// @Summary List periods
// @Tags Periods
// @Produce json
// @Param annee_scolaire query string false "School year, e.g. 2024-2025"
// @Param cloturee query bool false "Filter by closed flag"
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	filter := models.PeriodFilter{SchoolYear: c.Query("annee_scolaire")}
	if raw := c.Query("cloturee"); raw != "" {
		closed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "cloturee must be a boolean"))
			return
		}
		filter.Closed = &closed
	}
	periods, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, periods)
}

// Get godoc
// @Summary Get period
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{id} [get]
func (h *PeriodHandler) Get(c *gin.Context) {
	period, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, period)
}

// Create godoc
// @Summary Create period
// @Tags Periods
// @Accept json
// @Produce json
// @Param payload body service.CreatePeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Router /periods [post]
func (h *PeriodHandler) Create(c *gin.Context) {
	var req service.CreatePeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	period, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// Close godoc
// @Summary Close period
// @Description Freezes evaluations of the period and unlocks final report cards.
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{id}/close [post]
func (h *PeriodHandler) Close(c *gin.Context) {
	period, err := h.service.Close(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, period)
}
