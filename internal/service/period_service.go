package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

var schoolYearPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

type periodRepository interface {
	List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, error)
	FindByID(ctx context.Context, id string) (*models.Period, error)
	ExistsBySemester(ctx context.Context, schoolYear string, semester int) (bool, error)
	Create(ctx context.Context, period *models.Period) error
	Close(ctx context.Context, id, closedBy string, at time.Time) error
}

// CreatePeriodRequest defines a semester of a school year.
type CreatePeriodRequest struct {
	SchoolYear string    `json:"annee_scolaire" validate:"required"`
	Semester   int       `json:"semestre" validate:"oneof=1 2"`
	StartDate  time.Time `json:"date_debut" validate:"required"`
	EndDate    time.Time `json:"date_fin" validate:"required"`
}

// PeriodService manages academic periods and their closing.
type PeriodService struct {
	repo      periodRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPeriodService constructs the period service.
func NewPeriodService(repo periodRepository, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns periods matching the filter.
func (s *PeriodService) List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, error) {
	periods, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, nil
}

// Get returns a period by id.
func (s *PeriodService) Get(ctx context.Context, id string) (*models.Period, error) {
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	return period, nil
}

// Create opens a new period.
func (s *PeriodService) Create(ctx context.Context, req CreatePeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}
	schoolYear := strings.TrimSpace(req.SchoolYear)
	if err := checkSchoolYear(schoolYear); err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must be after start date")
	}
	exists, err := s.repo.ExistsBySemester(ctx, schoolYear, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check period uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("semester %d of %s already exists", req.Semester, schoolYear))
	}
	period := &models.Period{
		SchoolYear: schoolYear,
		Semester:   req.Semester,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}
	s.logger.Info("period created", zap.String("period_id", period.ID), zap.String("school_year", schoolYear), zap.Int("semester", req.Semester))
	return period, nil
}

// Close freezes the grades of a period. Closing a closed period returns it unchanged.
func (s *PeriodService) Close(ctx context.Context, id string, actor *models.JWTClaims) (*models.Period, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.IsAdministrator() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators may close a period")
	}
	period, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if period.Closed {
		return period, nil
	}
	if err := s.repo.Close(ctx, id, actor.UserID, s.now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close period")
	}
	s.logger.Info("period closed", zap.String("period_id", id), zap.String("closed_by", actor.UserID))
	return s.Get(ctx, id)
}

func checkSchoolYear(schoolYear string) error {
	match := schoolYearPattern.FindStringSubmatch(schoolYear)
	if match == nil {
		return appErrors.Clone(appErrors.ErrValidation, "school year must look like 2024-2025")
	}
	first, _ := strconv.Atoi(match[1])
	second, _ := strconv.Atoi(match[2])
	if second != first+1 {
		return appErrors.Clone(appErrors.ErrValidation, "school year must span two consecutive years")
	}
	return nil
}
