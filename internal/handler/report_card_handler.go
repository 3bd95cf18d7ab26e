package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/service"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/response"
)

type reportCardService interface {
	Generate(ctx context.Context, req service.GenerateReportCardRequest) (*models.ReportCard, error)
	GenerateForClass(ctx context.Context, classID, periodID string) ([]models.ReportCard, error)
	Get(ctx context.Context, id string) (*models.ReportCard, error)
	Share(ctx context.Context, id string, actor *models.JWTClaims) (*models.ReportCard, error)
	ExportPDF(ctx context.Context, id string) ([]byte, string, error)
	ExportClassCSV(ctx context.Context, classID, periodID string) ([]byte, string, error)
}

// ReportCardHandler exposes report card generation, publication and exports.
type ReportCardHandler struct {
	service reportCardService
}

// NewReportCardHandler constructs a report card handler.
func NewReportCardHandler(svc reportCardService) *ReportCardHandler {
	return &ReportCardHandler{service: svc}
}

// Generate godoc
// @Summary Generate the report card of a student
// @Description Cards of an open period are returned in progress without overall average, rank or mention.
// @Tags ReportCards
// @Accept json
// @Produce json
// @Param payload body service.GenerateReportCardRequest true "Student and period"
// @Success 200 {object} response.Envelope
// @Router /report-cards/generate [post]
func (h *ReportCardHandler) Generate(c *gin.Context) {
	var req service.GenerateReportCardRequest
	if !bindJSON(c, &req) {
		return
	}
	card, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, card.Presented())
}

// GenerateForClass godoc
// @Summary Generate the report cards of a class
// @Tags ReportCards
// @Produce json
// @Param id path string true "Class ID"
// @Param periodId path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/periods/{periodId}/report-cards [post]
func (h *ReportCardHandler) GenerateForClass(c *gin.Context) {
	cards, err := h.service.GenerateForClass(c.Request.Context(), c.Param("id"), c.Param("periodId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, presentCards(cards))
}

// Get godoc
// @Summary Get a stored report card
// @Tags ReportCards
// @Produce json
// @Param id path string true "Report card ID"
// @Success 200 {object} response.Envelope
// @Router /report-cards/{id} [get]
func (h *ReportCardHandler) Get(c *gin.Context) {
	card, ok := h.readable(c)
	if !ok {
		return
	}
	response.OK(c, card.Presented())
}

// Share godoc
// @Summary Share a closed report card with the family
// @Tags ReportCards
// @Produce json
// @Param id path string true "Report card ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Card not closed"
// @Router /report-cards/{id}/share [post]
func (h *ReportCardHandler) Share(c *gin.Context) {
	card, err := h.service.Share(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, card.Presented())
}

// DownloadPDF godoc
// @Summary Download the bulletin as PDF
// @Tags ReportCards
// @Produce application/pdf
// @Param id path string true "Report card ID"
// @Success 200 {file} binary
// @Router /report-cards/{id}/pdf [get]
func (h *ReportCardHandler) DownloadPDF(c *gin.Context) {
	if _, ok := h.readable(c); !ok {
		return
	}
	payload, filename, err := h.service.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", payload)
}

// RankingCSV godoc
// @Summary Download the class ranking of a closed period
// @Tags ReportCards
// @Produce text/csv
// @Param id path string true "Class ID"
// @Param periodId path string true "Period ID"
// @Success 200 {file} binary
// @Failure 412 {object} response.Envelope "Period still open"
// @Router /classes/{id}/periods/{periodId}/ranking.csv [get]
func (h *ReportCardHandler) RankingCSV(c *gin.Context) {
	payload, filename, err := h.service.ExportClassCSV(c.Request.Context(), c.Param("id"), c.Param("periodId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "text/csv; charset=utf-8", payload)
}

// readable loads the card and lets students see only their own shared cards.
func (h *ReportCardHandler) readable(c *gin.Context) (*models.ReportCard, bool) {
	card, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	claims := claimsFromContext(c)
	if claims != nil && claims.Role == models.RoleStudent {
		if card.StudentID != claims.UserID || card.Status != models.ReportCardShared {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report card not found"))
			return nil, false
		}
	}
	return card, true
}

func presentCards(cards []models.ReportCard) []models.ReportCard {
	out := make([]models.ReportCard, len(cards))
	for i, card := range cards {
		out[i] = card.Presented()
	}
	return out
}
