package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

const (
	minScore = 0.0
	maxScore = 20.0
)

type evaluationRepository interface {
	List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error)
	FindByID(ctx context.Context, id string) (*models.Evaluation, error)
	Create(ctx context.Context, evaluation *models.Evaluation) error
	Update(ctx context.Context, evaluation *models.Evaluation) error
	Delete(ctx context.Context, id string) error
}

type periodReader interface {
	FindByID(ctx context.Context, id string) (*models.Period, error)
}

type enrollmentReader interface {
	ListActiveStudentIDs(ctx context.Context, classID, schoolYear string) ([]string, error)
	FindActiveByStudent(ctx context.Context, studentID, schoolYear string) (*models.Enrollment, error)
}

type classSubjectReader interface {
	ListClassSubjects(ctx context.Context, classID, schoolYear string) ([]models.ClassSubject, error)
}

// RecordEvaluationRequest captures one score entered by a teacher.
type RecordEvaluationRequest struct {
	StudentID   string                    `json:"eleve_id" validate:"required"`
	SubjectID   string                    `json:"matiere_id" validate:"required"`
	ClassID     string                    `json:"classe_id" validate:"required"`
	PeriodID    string                    `json:"periode_id" validate:"required"`
	Category    models.EvaluationCategory `json:"categorie" validate:"required"`
	Title       *string                   `json:"intitule"`
	Score       float64                   `json:"note"`
	Coefficient *float64                  `json:"coefficient"`
	EvaluatedOn time.Time                 `json:"date" validate:"required"`
}

// UpdateEvaluationRequest corrects a recorded evaluation.
type UpdateEvaluationRequest struct {
	Category    *models.EvaluationCategory `json:"categorie"`
	Title       *string                    `json:"intitule"`
	Score       *float64                   `json:"note"`
	Coefficient *float64                   `json:"coefficient"`
	EvaluatedOn *time.Time                 `json:"date"`
}

// StudentAverages is the derived view of a student's grades for a period.
type StudentAverages struct {
	StudentID      string                  `json:"eleve_id"`
	ClassID        string                  `json:"classe_id"`
	PeriodID       string                  `json:"periode_id"`
	Subjects       []models.SubjectAverage `json:"matieres"`
	OverallAverage *float64                `json:"moyenne_generale"`
}

// Presented returns a copy with grades truncated for display.
func (a StudentAverages) Presented() StudentAverages {
	subjects := make([]models.SubjectAverage, len(a.Subjects))
	for i, subject := range a.Subjects {
		subjects[i] = subject.Presented()
	}
	a.Subjects = subjects
	if a.OverallAverage != nil {
		v := models.DisplayGrade(*a.OverallAverage)
		a.OverallAverage = &v
	}
	return a
}

// EvaluationService records raw scores and derives averages from them.
type EvaluationService struct {
	evaluations evaluationRepository
	periods     periodReader
	enrollments enrollmentReader
	subjects    classSubjectReader
	policy      GradingPolicy
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(
	evaluations evaluationRepository,
	periods periodReader,
	enrollments enrollmentReader,
	subjects classSubjectReader,
	policy GradingPolicy,
	validate *validator.Validate,
	logger *zap.Logger,
) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		evaluations: evaluations,
		periods:     periods,
		enrollments: enrollments,
		subjects:    subjects,
		policy:      policy.normalized(),
		validator:   validate,
		logger:      logger,
	}
}

// Policy returns the grading policy in use.
func (s *EvaluationService) Policy() GradingPolicy {
	return s.policy
}

// List returns evaluations matching the filter.
func (s *EvaluationService) List(ctx context.Context, filter models.EvaluationFilter) ([]models.Evaluation, error) {
	evaluations, err := s.evaluations.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list evaluations")
	}
	return evaluations, nil
}

// Record stores a new evaluation for a student of the given class.
func (s *EvaluationService) Record(ctx context.Context, req RecordEvaluationRequest, actor *models.JWTClaims) (*models.Evaluation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role == models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students cannot record evaluations")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}
	if err := checkCategory(req.Category); err != nil {
		return nil, err
	}
	if err := checkScore(req.Score); err != nil {
		return nil, err
	}
	coefficient := 1.0
	if req.Coefficient != nil {
		coefficient = *req.Coefficient
	}
	if err := checkCoefficient(coefficient); err != nil {
		return nil, err
	}

	period, err := s.openPeriod(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.enrollments.FindActiveByStudent(ctx, req.StudentID, period.SchoolYear)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student has no active enrollment for the period")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.ClassID != req.ClassID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is not enrolled in this class")
	}

	evaluation := &models.Evaluation{
		StudentID:   req.StudentID,
		SubjectID:   req.SubjectID,
		ClassID:     req.ClassID,
		PeriodID:    period.ID,
		Category:    req.Category,
		Title:       req.Title,
		Score:       req.Score,
		Coefficient: coefficient,
		EvaluatedOn: req.EvaluatedOn,
		RecordedBy:  actor.UserID,
	}
	if err := s.evaluations.Create(ctx, evaluation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record evaluation")
	}
	s.logger.Info("evaluation recorded",
		zap.String("evaluation_id", evaluation.ID),
		zap.String("student_id", evaluation.StudentID),
		zap.String("subject_id", evaluation.SubjectID),
		zap.String("period_id", evaluation.PeriodID),
		zap.String("recorded_by", actor.UserID))
	return evaluation, nil
}

// Update corrects an evaluation. Only its author may do so while the period is open.
func (s *EvaluationService) Update(ctx context.Context, id string, req UpdateEvaluationRequest, actor *models.JWTClaims) (*models.Evaluation, error) {
	evaluation, err := s.editable(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if req.Category != nil {
		if err := checkCategory(*req.Category); err != nil {
			return nil, err
		}
		evaluation.Category = *req.Category
	}
	if req.Score != nil {
		if err := checkScore(*req.Score); err != nil {
			return nil, err
		}
		evaluation.Score = *req.Score
	}
	if req.Coefficient != nil {
		if err := checkCoefficient(*req.Coefficient); err != nil {
			return nil, err
		}
		evaluation.Coefficient = *req.Coefficient
	}
	if req.Title != nil {
		evaluation.Title = req.Title
	}
	if req.EvaluatedOn != nil {
		evaluation.EvaluatedOn = *req.EvaluatedOn
	}
	if err := s.evaluations.Update(ctx, evaluation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update evaluation")
	}
	return evaluation, nil
}

// Delete removes an evaluation under the same rules as Update.
func (s *EvaluationService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	evaluation, err := s.editable(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.evaluations.Delete(ctx, evaluation.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete evaluation")
	}
	s.logger.Info("evaluation deleted", zap.String("evaluation_id", evaluation.ID), zap.String("deleted_by", actor.UserID))
	return nil
}

// SubjectAverages derives the per-subject and overall averages of a student for a period.
func (s *EvaluationService) SubjectAverages(ctx context.Context, studentID, periodID string) (*StudentAverages, error) {
	period, err := s.loadPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	enrollment, err := s.enrollments.FindActiveByStudent(ctx, studentID, period.SchoolYear)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no active enrollment for the period")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	subjects, err := s.StudentSubjectAverages(ctx, studentID, enrollment.ClassID, *period)
	if err != nil {
		return nil, err
	}
	return &StudentAverages{
		StudentID:      studentID,
		ClassID:        enrollment.ClassID,
		PeriodID:       period.ID,
		Subjects:       subjects,
		OverallAverage: ComputePeriodAverage(subjects),
	}, nil
}

// StudentSubjectAverages computes one student's subject averages within a class.
func (s *EvaluationService) StudentSubjectAverages(ctx context.Context, studentID, classID string, period models.Period) ([]models.SubjectAverage, error) {
	subjects, err := s.classSubjects(ctx, classID, period.SchoolYear)
	if err != nil {
		return nil, err
	}
	evaluations, err := s.evaluations.List(ctx, models.EvaluationFilter{StudentID: studentID, ClassID: classID, PeriodID: period.ID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}
	return summarizeSubjects(subjects, evaluations, s.policy), nil
}

// ClassSubjectAverages computes subject averages for every listed student of a class
// from a single evaluation query.
func (s *EvaluationService) ClassSubjectAverages(ctx context.Context, classID string, period models.Period, studentIDs []string) (map[string][]models.SubjectAverage, error) {
	subjects, err := s.classSubjects(ctx, classID, period.SchoolYear)
	if err != nil {
		return nil, err
	}
	evaluations, err := s.evaluations.List(ctx, models.EvaluationFilter{ClassID: classID, PeriodID: period.ID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class evaluations")
	}
	byStudent := make(map[string][]models.Evaluation, len(studentIDs))
	for _, evaluation := range evaluations {
		byStudent[evaluation.StudentID] = append(byStudent[evaluation.StudentID], evaluation)
	}
	result := make(map[string][]models.SubjectAverage, len(studentIDs))
	for _, id := range studentIDs {
		result[id] = summarizeSubjects(subjects, byStudent[id], s.policy)
	}
	return result, nil
}

func (s *EvaluationService) classSubjects(ctx context.Context, classID, schoolYear string) ([]models.ClassSubject, error) {
	subjects, err := s.subjects.ListClassSubjects(ctx, classID, schoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class subjects")
	}
	return subjects, nil
}

func (s *EvaluationService) editable(ctx context.Context, id string, actor *models.JWTClaims) (*models.Evaluation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	evaluation, err := s.evaluations.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	if evaluation.RecordedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the teacher who recorded the evaluation may change it")
	}
	if _, err := s.openPeriod(ctx, evaluation.PeriodID); err != nil {
		return nil, err
	}
	return evaluation, nil
}

func (s *EvaluationService) loadPeriod(ctx context.Context, id string) (*models.Period, error) {
	period, err := s.periods.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}
	return period, nil
}

func (s *EvaluationService) openPeriod(ctx context.Context, id string) (*models.Period, error) {
	period, err := s.loadPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	if period.Closed {
		return nil, appErrors.Clone(appErrors.ErrFinalized, fmt.Sprintf("period %s is closed", period.ID))
	}
	return period, nil
}

// summarizeSubjects keeps the class subject order; subjects graded outside the
// class programme follow, ordered by id, with a coefficient of 1.
func summarizeSubjects(subjects []models.ClassSubject, evaluations []models.Evaluation, policy GradingPolicy) []models.SubjectAverage {
	bySubject := make(map[string][]models.Evaluation)
	for _, evaluation := range evaluations {
		bySubject[evaluation.SubjectID] = append(bySubject[evaluation.SubjectID], evaluation)
	}
	result := make([]models.SubjectAverage, 0, len(subjects))
	for _, subject := range subjects {
		result = append(result, SummarizeSubject(subject.SubjectID, subject.SubjectName, subject.Coefficient, bySubject[subject.SubjectID], policy))
		delete(bySubject, subject.SubjectID)
	}
	extra := make([]string, 0, len(bySubject))
	for id := range bySubject {
		extra = append(extra, id)
	}
	sort.Strings(extra)
	for _, id := range extra {
		result = append(result, SummarizeSubject(id, "", 1, bySubject[id], policy))
	}
	return result
}

func checkCategory(category models.EvaluationCategory) error {
	if category != models.CategoryContinuous && category != models.CategoryFormal {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown evaluation category %q", category))
	}
	return nil
}

func checkScore(score float64) error {
	if math.IsNaN(score) || score < minScore || score > maxScore {
		return appErrors.Clone(appErrors.ErrOutOfRange, fmt.Sprintf("score %.2f must be between %.0f and %.0f", score, minScore, maxScore))
	}
	return nil
}

func checkCoefficient(coefficient float64) error {
	if math.IsNaN(coefficient) || coefficient <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "coefficient must be positive")
	}
	return nil
}
