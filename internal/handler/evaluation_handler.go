package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/service"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/response"
)

type evaluationService interface {
	List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error)
	Record(ctx context.Context, req service.RecordEvaluationRequest, actor *models.JWTClaims) (*models.Evaluation, error)
	Update(ctx context.Context, id string, req service.UpdateEvaluationRequest, actor *models.JWTClaims) (*models.Evaluation, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
	SubjectAverages(ctx context.Context, studentID, periodID string) (*service.StudentAverages, error)
}

// EvaluationHandler exposes grade entry and derived averages.
type EvaluationHandler struct {
	service evaluationService
}

// NewEvaluationHandler constructs an evaluation handler.
func NewEvaluationHandler(svc evaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: svc}
}

// List godoc
// @Summary List evaluations
// @Tags Evaluations
// @Produce json
// @Param eleve_id query string false "Filter by student"
// @Param matiere_id query string false "Filter by subject"
// @Param classe_id query string false "Filter by class"
// @Param periode_id query string false "Filter by period"
// @Param categorie query string false "continuous or formal"
// @Success 200 {object} response.Envelope
// @Router /evaluations [get]
func (h *EvaluationHandler) List(c *gin.Context) {
	filter := models.EvaluationFilter{
		StudentID: c.Query("eleve_id"),
		SubjectID: c.Query("matiere_id"),
		ClassID:   c.Query("classe_id"),
		PeriodID:  c.Query("periode_id"),
	}
	if raw := c.Query("categorie"); raw != "" {
		category, err := models.ParseEvaluationCategory(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid category"))
			return
		}
		filter.Category = category
	}
	evaluations, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, evaluations)
}

// Record godoc
// @Summary Record an evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param payload body service.RecordEvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Period closed"
// @Failure 422 {object} response.Envelope "Score outside 0..20"
// @Router /evaluations [post]
func (h *EvaluationHandler) Record(c *gin.Context) {
	var req service.RecordEvaluationRequest
	if !bindJSON(c, &req) {
		return
	}
	evaluation, err := h.service.Record(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, evaluation)
}

// Update godoc
// @Summary Correct an evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path string true "Evaluation ID"
// @Param payload body service.UpdateEvaluationRequest true "Evaluation fields"
// @Success 200 {object} response.Envelope
// @Router /evaluations/{id} [put]
func (h *EvaluationHandler) Update(c *gin.Context) {
	var req service.UpdateEvaluationRequest
	if !bindJSON(c, &req) {
		return
	}
	evaluation, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, evaluation)
}

// Delete godoc
// @Summary Delete an evaluation
// @Tags Evaluations
// @Param id path string true "Evaluation ID"
// @Success 204
// @Router /evaluations/{id} [delete]
func (h *EvaluationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StudentAverages godoc
// @Summary Subject and period averages of a student
// @Tags Evaluations
// @Produce json
// @Param id path string true "Student ID"
// @Param periodId path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/periods/{periodId}/averages [get]
func (h *EvaluationHandler) StudentAverages(c *gin.Context) {
	studentID := c.Param("id")
	if !canReadStudent(claimsFromContext(c), studentID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}
	averages, err := h.service.SubjectAverages(c.Request.Context(), studentID, c.Param("periodId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, averages.Presented())
}

// canReadStudent lets staff read any student and students read themselves.
func canReadStudent(claims *models.JWTClaims, studentID string) bool {
	if claims == nil {
		return false
	}
	if claims.Role != models.RoleStudent {
		return true
	}
	return claims.UserID == studentID
}
