package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/service"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/response"
)

type assignmentService interface {
	Get(ctx context.Context, id string) (*models.ClassAssignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.ClassAssignment, *models.Pagination, error)
	ListByClass(ctx context.Context, classID string) ([]models.ClassAssignment, error)
	Create(ctx context.Context, req service.CreateAssignmentRequest) (*models.ClassAssignment, error)
	AddTimeSlot(ctx context.Context, assignmentID string, req service.TimeSlotRequest) (*models.ClassAssignment, error)
	UpdateTimeSlot(ctx context.Context, assignmentID, slotID string, req service.TimeSlotRequest) (*models.ClassAssignment, error)
	RemoveTimeSlot(ctx context.Context, assignmentID, slotID string) (*models.ClassAssignment, error)
	ChangeStatus(ctx context.Context, assignmentID string, req service.ChangeStatusRequest) (*models.ClassAssignment, error)
	UpdateProgression(ctx context.Context, assignmentID string, req service.ProgressionRequest) (*models.ClassAssignment, error)
	UpdateDetails(ctx context.Context, assignmentID string, req service.UpdateAssignmentRequest) (*models.ClassAssignment, error)
}

// AssignmentHandler exposes course assignments and their weekly time slots.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// List godoc
// @Summary List course assignments
// @Tags Assignments
// @Produce json
// @Param cours_id query string false "Filter by course"
// @Param classe_id query string false "Filter by class"
// @Param annee_scolaire query string false "Filter by school year"
// @Param statut query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	filter := models.AssignmentFilter{
		CourseID:   c.Query("cours_id"),
		ClassID:    c.Query("classe_id"),
		SchoolYear: c.Query("annee_scolaire"),
		Status:     models.AssignmentStatus(c.Query("statut")),
	}
	filter.Page, filter.PageSize = pageParams(c)

	assignments, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// ListByClass godoc
// @Summary List the assignments of a class
// @Tags Assignments
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/assignments [get]
func (h *AssignmentHandler) ListByClass(c *gin.Context) {
	assignments, err := h.service.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignments)
}

// Get godoc
// @Summary Get course assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}

// Create godoc
// @Summary Assign a course to a class
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req service.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update assignment details
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.UpdateAssignmentRequest true "Assignment fields"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [patch]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req service.UpdateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.UpdateDetails(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}

// AddSlot godoc
// @Summary Add a weekly time slot
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.TimeSlotRequest true "Time slot"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /assignments/{id}/slots [post]
func (h *AssignmentHandler) AddSlot(c *gin.Context) {
	var req service.TimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.AddTimeSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// UpdateSlot godoc
// @Summary Move a weekly time slot
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param slotId path string true "Time slot ID"
// @Param payload body service.TimeSlotRequest true "Time slot"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/slots/{slotId} [put]
func (h *AssignmentHandler) UpdateSlot(c *gin.Context) {
	var req service.TimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.UpdateTimeSlot(c.Request.Context(), c.Param("id"), c.Param("slotId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}

// RemoveSlot godoc
// @Summary Remove a weekly time slot
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Param slotId path string true "Time slot ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/slots/{slotId} [delete]
func (h *AssignmentHandler) RemoveSlot(c *gin.Context) {
	assignment, err := h.service.RemoveTimeSlot(c.Request.Context(), c.Param("id"), c.Param("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}

// ChangeStatus godoc
// @Summary Change assignment status
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.ChangeStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/status [post]
func (h *AssignmentHandler) ChangeStatus(c *gin.Context) {
	var req service.ChangeStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.ChangeStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}

// UpdateProgression godoc
// @Summary Report course progression
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.ProgressionRequest true "Progression in percent"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/progression [post]
func (h *AssignmentHandler) UpdateProgression(c *gin.Context) {
	var req service.ProgressionRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.UpdateProgression(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}
