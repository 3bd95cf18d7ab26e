package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/repository"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseAssignments interface {
	CancelForCourse(ctx context.Context, courseID string) (int, error)
	MaxLiveWeeklyHours(ctx context.Context, courseID string) (float64, error)
}

// CreateCourseRequest defines a catalog course.
type CreateCourseRequest struct {
	Title            string              `json:"titre" validate:"required"`
	SubjectID        string              `json:"matiere_id" validate:"required"`
	Level            string              `json:"niveau" validate:"required"`
	WeeklyHourBudget float64             `json:"heures_par_semaine" validate:"gt=0,lte=40"`
	Coefficient      float64             `json:"coefficient" validate:"gt=0"`
	Status           models.CourseStatus `json:"statut"`
}

// UpdateCourseRequest carries administrative edits.
type UpdateCourseRequest struct {
	Title            *string              `json:"titre"`
	Level            *string              `json:"niveau"`
	WeeklyHourBudget *float64             `json:"heures_par_semaine" validate:"omitempty,gt=0,lte=40"`
	Coefficient      *float64             `json:"coefficient" validate:"omitempty,gt=0"`
	Status           *models.CourseStatus `json:"statut"`
}

// CourseService manages the course catalog.
type CourseService struct {
	repo        courseRepository
	assignments courseAssignments
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, assignments courseAssignments, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, assignments: assignments, validator: validate, logger: logger}
}

// List returns paginated courses.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course status %q", filter.Status))
	}
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	status := req.Status
	if status == "" {
		status = models.CourseStatusActive
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course status %q", status))
	}
	course := &models.Course{
		Title:            strings.TrimSpace(req.Title),
		SubjectID:        req.SubjectID,
		Level:            strings.TrimSpace(req.Level),
		WeeklyHourBudget: req.WeeklyHourBudget,
		Coefficient:      req.Coefficient,
		Status:           status,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("title", course.Title))
	return course, nil
}

// Update applies administrative edits. The budget may not drop below the
// weekly target of a live assignment; cancelling a course cancels its assignments.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
		}
		course.Title = title
	}
	if req.Level != nil {
		course.Level = strings.TrimSpace(*req.Level)
	}
	if req.Coefficient != nil {
		course.Coefficient = *req.Coefficient
	}
	if req.WeeklyHourBudget != nil {
		highest, err := s.assignments.MaxLiveWeeklyHours(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		if *req.WeeklyHourBudget < highest-hourTolerance {
			return nil, appErrors.Clone(appErrors.ErrInvalidHours,
				fmt.Sprintf("budget %.2f is below the %.2f weekly hours already assigned", *req.WeeklyHourBudget, highest))
		}
		course.WeeklyHourBudget = *req.WeeklyHourBudget
	}
	cancelling := false
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown course status %q", *req.Status))
		}
		cancelling = *req.Status == models.CourseStatusCancelled && course.Status != models.CourseStatusCancelled
		course.Status = *req.Status
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	if cancelling {
		if _, err := s.assignments.CancelForCourse(ctx, course.ID); err != nil {
			return nil, err
		}
	}
	return course, nil
}

// Delete cancels the live assignments of a course and removes it. A course
// still referenced by past assignments is kept as cancelled instead.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	course, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	cancelled, err := s.assignments.CancelForCourse(ctx, course.ID)
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, course.ID)
	if errors.Is(err, repository.ErrCourseInUse) {
		course.Status = models.CourseStatusCancelled
		if err := s.repo.Update(ctx, course); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive course")
		}
		s.logger.Info("course archived", zap.String("course_id", course.ID), zap.Int("assignments_cancelled", cancelled))
		return nil
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("course_id", course.ID), zap.Int("assignments_cancelled", cancelled))
	return nil
}
