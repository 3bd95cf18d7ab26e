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
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/repository"
	appErrors "github.com/JulesBestDev176/isiportal-front-sub002/pkg/errors"
)

// scheduleWriteAttempts bounds how often a slot write is replayed after a stale read.
const scheduleWriteAttempts = 3

type classAssignmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.ClassAssignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.ClassAssignment, int, error)
	ListLiveByCourse(ctx context.Context, courseID string) ([]models.ClassAssignment, error)
	ExistsLive(ctx context.Context, courseID, classID, schoolYear string) (bool, error)
	ClassSchedule(ctx context.Context, classID string) (int64, []models.TimeSlot, error)
	RoomSlots(ctx context.Context, room string) ([]models.TimeSlot, error)
	Create(ctx context.Context, assignment *models.ClassAssignment) error
	Update(ctx context.Context, assignment *models.ClassAssignment, expected models.AssignmentStatus) error
	InsertSlot(ctx context.Context, expectedVersion int64, slot *models.TimeSlot, totalWeeklyHours float64) error
	UpdateSlot(ctx context.Context, expectedVersion int64, slot *models.TimeSlot, totalWeeklyHours float64) error
	DeleteSlot(ctx context.Context, expectedVersion int64, slot models.TimeSlot, totalWeeklyHours float64) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type classReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// CreateAssignmentRequest binds a course to a class. WeeklyHours defaults to the course budget.
type CreateAssignmentRequest struct {
	CourseID    string     `json:"cours_id" validate:"required"`
	ClassID     string     `json:"classe_id" validate:"required"`
	SchoolYear  string     `json:"annee_scolaire"`
	StartDate   time.Time  `json:"date_debut" validate:"required"`
	EndDate     *time.Time `json:"date_fin"`
	WeeklyHours *float64   `json:"heures_souhaitees"`
	Notes       *string    `json:"notes"`
}

// TimeSlotRequest describes a weekly slot. Day accepts English or French names.
type TimeSlotRequest struct {
	Day   string           `json:"jour" validate:"required"`
	Start models.ClockTime `json:"heure_debut"`
	End   models.ClockTime `json:"heure_fin"`
	Room  *string          `json:"salle"`
}

// UpdateAssignmentRequest edits the non-schedule fields of an assignment.
type UpdateAssignmentRequest struct {
	Notes       *string    `json:"notes"`
	EndDate     *time.Time `json:"date_fin"`
	WeeklyHours *float64   `json:"heures_souhaitees"`
}

// ChangeStatusRequest moves an assignment through its lifecycle.
type ChangeStatusRequest struct {
	Status models.AssignmentStatus `json:"statut" validate:"required,oneof=planned active finished cancelled"`
}

// ProgressionRequest reports course progression in percent.
type ProgressionRequest struct {
	Progression float64 `json:"progression"`
}

// ClassAssignmentService schedules courses into class timetables.
// Mutations of one class are serialised in process and checked against the
// class schedule version in the database.
type ClassAssignmentService struct {
	assignments classAssignmentRepository
	courses     courseReader
	classes     classReader
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	locks       classLocks
}

// NewClassAssignmentService creates the assignment engine.
func NewClassAssignmentService(
	assignments classAssignmentRepository,
	courses courseReader,
	classes classReader,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ClassAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassAssignmentService{
		assignments: assignments,
		courses:     courses,
		classes:     classes,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Get returns an assignment with its slots.
func (s *ClassAssignmentService) Get(ctx context.Context, id string) (*models.ClassAssignment, error) {
	return s.load(ctx, id)
}

// List returns assignments matching the filter.
func (s *ClassAssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.ClassAssignment, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	assignments, total, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	for i := range assignments {
		sortSlots(assignments[i].Slots)
	}
	return assignments, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListByClass returns every assignment of a class.
func (s *ClassAssignmentService) ListByClass(ctx context.Context, classID string) ([]models.ClassAssignment, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	assignments, _, err := s.List(ctx, models.AssignmentFilter{ClassID: classID, Page: 1, PageSize: 100})
	return assignments, err
}

// Create binds a course to a class in the planned state.
func (s *ClassAssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*models.ClassAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if !course.Assignable() {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("course is %s", course.Status))
	}
	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	hours := course.WeeklyHourBudget
	if req.WeeklyHours != nil {
		hours = *req.WeeklyHours
	}
	if err := checkWeeklyHours(hours, course.WeeklyHourBudget); err != nil {
		return nil, err
	}

	schoolYear := strings.TrimSpace(req.SchoolYear)
	if schoolYear == "" {
		schoolYear = class.SchoolYear
	}

	unlock := s.locks.lock(class.ID)
	defer unlock()

	exists, err := s.assignments.ExistsLive(ctx, course.ID, class.ID, schoolYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateAssignment, fmt.Sprintf("course %s already assigned to class %s for %s", course.ID, class.ID, schoolYear))
	}

	assignment := &models.ClassAssignment{
		CourseID:    course.ID,
		ClassID:     class.ID,
		SchoolYear:  schoolYear,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		WeeklyHours: hours,
		Status:      models.AssignmentPlanned,
		Notes:       req.Notes,
		Slots:       []models.TimeSlot{},
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.logger.Info("assignment created",
		zap.String("assignment_id", assignment.ID),
		zap.String("course_id", course.ID),
		zap.String("class_id", class.ID),
		zap.Float64("weekly_hours", hours))
	return assignment, nil
}

// AddTimeSlot appends a slot after checking the class timetable, the room and the weekly budget.
func (s *ClassAssignmentService) AddTimeSlot(ctx context.Context, assignmentID string, req TimeSlotRequest) (*models.ClassAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}
	return s.writeSlot(ctx, assignmentID, "", req)
}

// UpdateTimeSlot replaces a slot; the previous version of the slot never conflicts with the new one.
func (s *ClassAssignmentService) UpdateTimeSlot(ctx context.Context, assignmentID, slotID string, req TimeSlotRequest) (*models.ClassAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}
	return s.writeSlot(ctx, assignmentID, slotID, req)
}

// RemoveTimeSlot deletes a slot. An assignment may be left without slots.
func (s *ClassAssignmentService) RemoveTimeSlot(ctx context.Context, assignmentID, slotID string) (*models.ClassAssignment, error) {
	assignment, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.lock(assignment.ClassID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		assignment, err = s.load(ctx, assignmentID)
		if err != nil {
			return nil, err
		}
		if assignment.Status.Terminal() {
			return nil, terminalError(assignment)
		}
		idx := slotIndex(assignment.Slots, slotID)
		if idx < 0 {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
		}
		removed := assignment.Slots[idx]
		remaining := append(append([]models.TimeSlot{}, assignment.Slots[:idx]...), assignment.Slots[idx+1:]...)

		version, _, err := s.assignments.ClassSchedule(ctx, assignment.ClassID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class schedule")
		}
		total := minutesToHours(totalMinutes(remaining))
		err = s.assignments.DeleteSlot(ctx, version, removed, total)
		if errors.Is(err, repository.ErrStaleSchedule) && attempt < scheduleWriteAttempts {
			s.metrics.RecordScheduleRetry()
			continue
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove time slot")
		}

		assignment.Slots = remaining
		assignment.TotalWeeklyHours = total
		s.logger.Info("time slot removed", zap.String("assignment_id", assignment.ID), zap.String("slot_id", slotID))
		return assignment, nil
	}
}

// ChangeStatus applies a lifecycle transition.
func (s *ClassAssignmentService) ChangeStatus(ctx context.Context, assignmentID string, req ChangeStatusRequest) (*models.ClassAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	assignment, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.lock(assignment.ClassID)
	defer unlock()

	if assignment, err = s.load(ctx, assignmentID); err != nil {
		return nil, err
	}
	if !assignment.Status.CanTransitionTo(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStateTransition, fmt.Sprintf("cannot move assignment from %s to %s", assignment.Status, req.Status))
	}
	if req.Status == models.AssignmentActive && len(assignment.Slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoTimeSlots, "assignment needs at least one time slot before activation")
	}

	previous := assignment.Status
	assignment.Status = req.Status
	assignment.TotalWeeklyHours = minutesToHours(assignment.ScheduledMinutes())
	if err := s.save(ctx, assignment, previous, "failed to update assignment status"); err != nil {
		return nil, err
	}
	s.logger.Info("assignment status changed",
		zap.String("assignment_id", assignment.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(req.Status)))
	return assignment, nil
}

// UpdateProgression records the percentage of the course already taught.
func (s *ClassAssignmentService) UpdateProgression(ctx context.Context, assignmentID string, req ProgressionRequest) (*models.ClassAssignment, error) {
	if math.IsNaN(req.Progression) || req.Progression < 0 || req.Progression > 100 {
		return nil, appErrors.Clone(appErrors.ErrOutOfRange, fmt.Sprintf("progression %.2f must be between 0 and 100", req.Progression))
	}
	assignment, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.lock(assignment.ClassID)
	defer unlock()

	if assignment, err = s.load(ctx, assignmentID); err != nil {
		return nil, err
	}
	if assignment.Status.Terminal() {
		return nil, terminalError(assignment)
	}
	assignment.Progression = req.Progression
	assignment.TotalWeeklyHours = minutesToHours(assignment.ScheduledMinutes())
	if err := s.save(ctx, assignment, assignment.Status, "failed to update progression"); err != nil {
		return nil, err
	}
	return assignment, nil
}

// UpdateDetails edits notes, end date and weekly hours.
func (s *ClassAssignmentService) UpdateDetails(ctx context.Context, assignmentID string, req UpdateAssignmentRequest) (*models.ClassAssignment, error) {
	assignment, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.lock(assignment.ClassID)
	defer unlock()

	if assignment, err = s.load(ctx, assignmentID); err != nil {
		return nil, err
	}
	if assignment.Status.Terminal() {
		return nil, terminalError(assignment)
	}
	if req.EndDate != nil && req.EndDate.Before(assignment.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	if req.WeeklyHours != nil {
		course, err := s.courses.FindByID(ctx, assignment.CourseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
		if err := checkWeeklyHours(*req.WeeklyHours, course.WeeklyHourBudget); err != nil {
			return nil, err
		}
		scheduled := assignment.ScheduledMinutes()
		if scheduled > budgetMinutes(*req.WeeklyHours) {
			return nil, budgetError(*req.WeeklyHours, exactHours(scheduled))
		}
		assignment.WeeklyHours = *req.WeeklyHours
	}
	if req.Notes != nil {
		assignment.Notes = req.Notes
	}
	if req.EndDate != nil {
		assignment.EndDate = req.EndDate
	}
	assignment.TotalWeeklyHours = minutesToHours(assignment.ScheduledMinutes())
	if err := s.save(ctx, assignment, assignment.Status, "failed to update assignment"); err != nil {
		return nil, err
	}
	return assignment, nil
}

// CancelForCourse cancels every planned or active assignment of a course and
// returns how many were cancelled.
func (s *ClassAssignmentService) CancelForCourse(ctx context.Context, courseID string) (int, error) {
	live, err := s.assignments.ListLiveByCourse(ctx, courseID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course assignments")
	}
	cancelled := 0
	for i := range live {
		ok, err := s.cancel(ctx, live[i])
		if err != nil {
			return cancelled, err
		}
		if ok {
			cancelled++
		}
	}
	if cancelled > 0 {
		s.logger.Info("course assignments cancelled", zap.String("course_id", courseID), zap.Int("count", cancelled))
	}
	return cancelled, nil
}

// cancel re-reads the assignment under its class lock and cancels it unless
// another request already ended it.
func (s *ClassAssignmentService) cancel(ctx context.Context, listed models.ClassAssignment) (bool, error) {
	unlock := s.locks.lock(listed.ClassID)
	defer unlock()

	assignment, err := s.assignments.FindByID(ctx, listed.ID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.Status.Terminal() {
		return false, nil
	}
	previous := assignment.Status
	assignment.Status = models.AssignmentCancelled
	if err := s.assignments.Update(ctx, assignment, previous); err != nil {
		if errors.Is(err, repository.ErrAssignmentChanged) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel assignment")
	}
	return true, nil
}

// MaxLiveWeeklyHours returns the highest weekly target among live assignments of a course.
func (s *ClassAssignmentService) MaxLiveWeeklyHours(ctx context.Context, courseID string) (float64, error) {
	live, err := s.assignments.ListLiveByCourse(ctx, courseID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course assignments")
	}
	var highest float64
	for _, assignment := range live {
		if assignment.WeeklyHours > highest {
			highest = assignment.WeeklyHours
		}
	}
	return highest, nil
}

// writeSlot inserts (slotID empty) or replaces a slot. The class timetable is
// re-read on every attempt so a write racing another one is validated against
// the slots that actually committed.
func (s *ClassAssignmentService) writeSlot(ctx context.Context, assignmentID, slotID string, req TimeSlotRequest) (*models.ClassAssignment, error) {
	assignment, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	unlock := s.locks.lock(assignment.ClassID)
	defer unlock()

	day, _ := models.ParseWeekday(req.Day)
	candidate := models.TimeSlot{
		ID:           slotID,
		AssignmentID: assignment.ID,
		ClassID:      assignment.ClassID,
		Day:          day,
		Start:        req.Start,
		End:          req.End,
		Room:         normalizeRoom(req.Room),
	}

	for attempt := 1; ; attempt++ {
		assignment, err = s.load(ctx, assignmentID)
		if err != nil {
			return nil, err
		}
		if assignment.Status.Terminal() {
			return nil, terminalError(assignment)
		}

		others := assignment.Slots
		if slotID != "" {
			idx := slotIndex(assignment.Slots, slotID)
			if idx < 0 {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
			}
			candidate.CreatedAt = assignment.Slots[idx].CreatedAt
			others = append(append([]models.TimeSlot{}, assignment.Slots[:idx]...), assignment.Slots[idx+1:]...)
		}

		version, classSlots, err := s.assignments.ClassSchedule(ctx, assignment.ClassID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class schedule")
		}
		var roomSlots []models.TimeSlot
		if room := candidate.RoomName(); room != "" {
			if roomSlots, err = s.assignments.RoomSlots(ctx, room); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room bookings")
			}
		}
		if err := ValidateTimeSlot(candidate, classSlots, roomSlots); err != nil {
			s.reject(assignment, err)
			return nil, err
		}

		attempted := totalMinutes(others) + candidate.Minutes()
		if attempted > budgetMinutes(assignment.WeeklyHours) {
			err := budgetError(assignment.WeeklyHours, exactHours(attempted))
			s.reject(assignment, err)
			return nil, err
		}

		total := minutesToHours(attempted)
		slot := candidate
		if slotID == "" {
			err = s.assignments.InsertSlot(ctx, version, &slot, total)
		} else {
			err = s.assignments.UpdateSlot(ctx, version, &slot, total)
		}
		if errors.Is(err, repository.ErrStaleSchedule) || errors.Is(err, repository.ErrRoomTaken) {
			if attempt < scheduleWriteAttempts {
				s.metrics.RecordScheduleRetry()
				s.logger.Debug("schedule changed concurrently, revalidating",
					zap.String("assignment_id", assignment.ID),
					zap.Int("attempt", attempt))
				continue
			}
			conflict := appErrors.ErrTimeOverlap
			if errors.Is(err, repository.ErrRoomTaken) {
				conflict = appErrors.ErrRoomConflict
			}
			rejected := appErrors.Wrap(err, conflict.Code, conflict.Status, "schedule changed concurrently, reload and retry")
			s.reject(assignment, rejected)
			return nil, rejected
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save time slot")
		}

		assignment.Slots = append(others, slot)
		sortSlots(assignment.Slots)
		assignment.TotalWeeklyHours = total
		s.logger.Info("time slot saved",
			zap.String("assignment_id", assignment.ID),
			zap.String("class_id", assignment.ClassID),
			zap.String("slot_id", slot.ID),
			zap.String("day", string(slot.Day)),
			zap.String("start", slot.Start.String()),
			zap.String("end", slot.End.String()))
		return assignment, nil
	}
}

func (s *ClassAssignmentService) reject(assignment *models.ClassAssignment, err error) {
	code := appErrors.FromError(err).Code
	s.metrics.RecordScheduleRejection(code)
	s.logger.Info("time slot rejected",
		zap.String("assignment_id", assignment.ID),
		zap.String("class_id", assignment.ClassID),
		zap.String("code", code))
}

func (s *ClassAssignmentService) load(ctx context.Context, id string) (*models.ClassAssignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.Slots == nil {
		assignment.Slots = []models.TimeSlot{}
	}
	sortSlots(assignment.Slots)
	return assignment, nil
}

func checkWeeklyHours(hours, budget float64) error {
	if math.IsNaN(hours) || hours <= 0 {
		return appErrors.Clone(appErrors.ErrInvalidHours, "weekly hours must be positive")
	}
	if hours > budget+hourTolerance {
		return appErrors.Clone(appErrors.ErrInvalidHours, fmt.Sprintf("weekly hours %.2f exceed course budget %.2f", hours, budget))
	}
	return nil
}

func budgetError(budget, attempted float64) error {
	detail := &models.BudgetExceededError{BudgetHours: budget, AttemptedHours: attempted}
	return appErrors.Wrap(detail, appErrors.ErrBudgetExceeded.Code, appErrors.ErrBudgetExceeded.Status, detail.Error())
}

// save writes the assignment only if its status is still expected. A status
// changed by another writer surfaces as an invalid transition.
func (s *ClassAssignmentService) save(ctx context.Context, assignment *models.ClassAssignment, expected models.AssignmentStatus, failure string) error {
	err := s.assignments.Update(ctx, assignment, expected)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrAssignmentChanged) {
		return appErrors.Clone(appErrors.ErrInvalidStateTransition, fmt.Sprintf("assignment %s was modified concurrently", assignment.ID))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failure)
}

func terminalError(assignment *models.ClassAssignment) error {
	return appErrors.Clone(appErrors.ErrInvalidStateTransition, fmt.Sprintf("assignment is %s", assignment.Status))
}

func normalizeRoom(room *string) *string {
	if room == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*room)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func slotIndex(slots []models.TimeSlot, id string) int {
	for i := range slots {
		if slots[i].ID == id {
			return i
		}
	}
	return -1
}

func totalMinutes(slots []models.TimeSlot) int {
	total := 0
	for _, slot := range slots {
		total += slot.Minutes()
	}
	return total
}

// hourTolerance absorbs float noise when two hour amounts are compared.
const hourTolerance = 1e-9

// budgetMinutes is the largest whole number of minutes that fits in hours.
// It rounds down so a schedule never exceeds its budget: 1.01h allows 60 minutes.
func budgetMinutes(hours float64) int {
	return int(math.Floor(hours*60 + 1e-6))
}

func exactHours(minutes int) float64 {
	return float64(minutes) / 60
}

// minutesToHours gives the displayed weekly total, truncated to two decimals
// so it never reads above the target it fits in.
func minutesToHours(minutes int) float64 {
	return math.Floor(exactHours(minutes)*100+1e-7) / 100
}

func sortSlots(slots []models.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Day.Order() != slots[j].Day.Order() {
			return slots[i].Day.Order() < slots[j].Day.Order()
		}
		return slots[i].Start < slots[j].Start
	})
}

// classLocks hands out one mutex per class.
type classLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *classLocks) lock(classID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[classID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[classID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
