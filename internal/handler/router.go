package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/middleware"
)

// Handlers groups the resource handlers mounted under the API prefix.
type Handlers struct {
	Courses        *CourseHandler
	Periods        *PeriodHandler
	Assignments    *AssignmentHandler
	Evaluations    *EvaluationHandler
	ReportCards    *ReportCardHandler
	PromotionRules *PromotionRuleHandler
}

// RegisterRoutes mounts every API route on group behind JWT verification.
// Students only reach their own averages and shared report cards.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, tokens middleware.TokenValidator) {
	api := group.Group("", middleware.JWT(tokens))
	staff := middleware.Staff()
	admins := middleware.Administrators()

	courses := api.Group("/courses")
	courses.GET("", staff, h.Courses.List)
	courses.GET("/:id", staff, h.Courses.Get)
	courses.POST("", admins, h.Courses.Create)
	courses.PUT("/:id", admins, h.Courses.Update)
	courses.DELETE("/:id", admins, h.Courses.Delete)

	periods := api.Group("/periods")
	periods.GET("", h.Periods.List)
	periods.GET("/:id", h.Periods.Get)
	periods.POST("", admins, h.Periods.Create)
	periods.POST("/:id/close", admins, h.Periods.Close)

	assignments := api.Group("/assignments")
	assignments.GET("", staff, h.Assignments.List)
	assignments.GET("/:id", staff, h.Assignments.Get)
	assignments.POST("", admins, h.Assignments.Create)
	assignments.PATCH("/:id", admins, h.Assignments.Update)
	assignments.POST("/:id/slots", admins, h.Assignments.AddSlot)
	assignments.PUT("/:id/slots/:slotId", admins, h.Assignments.UpdateSlot)
	assignments.DELETE("/:id/slots/:slotId", admins, h.Assignments.RemoveSlot)
	assignments.POST("/:id/status", admins, h.Assignments.ChangeStatus)
	assignments.POST("/:id/progression", staff, h.Assignments.UpdateProgression)

	classes := api.Group("/classes/:id")
	classes.GET("/assignments", staff, h.Assignments.ListByClass)
	classes.POST("/periods/:periodId/report-cards", staff, h.ReportCards.GenerateForClass)
	classes.GET("/periods/:periodId/ranking.csv", staff, h.ReportCards.RankingCSV)

	evaluations := api.Group("/evaluations")
	evaluations.GET("", staff, h.Evaluations.List)
	evaluations.POST("", staff, h.Evaluations.Record)
	evaluations.PUT("/:id", staff, h.Evaluations.Update)
	evaluations.DELETE("/:id", staff, h.Evaluations.Delete)
	api.GET("/students/:id/periods/:periodId/averages", h.Evaluations.StudentAverages)

	reportCards := api.Group("/report-cards")
	reportCards.POST("/generate", staff, h.ReportCards.Generate)
	reportCards.GET("/:id", h.ReportCards.Get)
	reportCards.GET("/:id/pdf", h.ReportCards.DownloadPDF)
	reportCards.POST("/:id/share", admins, h.ReportCards.Share)

	rules := api.Group("/promotion-rules")
	rules.GET("", staff, h.PromotionRules.List)
	rules.GET("/active", h.PromotionRules.GetActive)
	rules.PUT("/active", admins, h.PromotionRules.SetActive)
	rules.POST("/evaluate", staff, h.PromotionRules.Evaluate)
}
