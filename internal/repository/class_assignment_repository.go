package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/database"
)

var (
	// ErrStaleSchedule is returned when the class timetable changed since it was read.
	ErrStaleSchedule = errors.New("class schedule changed concurrently")
	// ErrRoomTaken is returned when a room booking appeared since validation.
	ErrRoomTaken = errors.New("room booked concurrently")
	// ErrAssignmentChanged is returned when the assignment status moved since it was read.
	ErrAssignmentChanged = errors.New("assignment changed concurrently")
)

const (
	assignmentColumns = "id, course_id, class_id, school_year, start_date, end_date, weekly_hours, total_weekly_hours, status, progression, notes, created_at, updated_at"
	slotColumns       = "s.id, s.assignment_id, s.class_id, s.day_of_week, s.start_time, s.end_time, s.room, s.created_at"
	liveStatuses      = "('planned', 'active')"
)

// ClassAssignmentRepository persists assignments and their time slots.
type ClassAssignmentRepository struct {
	db *sqlx.DB
}

// NewClassAssignmentRepository constructs the repository.
func NewClassAssignmentRepository(db *sqlx.DB) *ClassAssignmentRepository {
	return &ClassAssignmentRepository{db: db}
}

// FindByID loads an assignment with its slots.
func (r *ClassAssignmentRepository) FindByID(ctx context.Context, id string) (*models.ClassAssignment, error) {
	var assignment models.ClassAssignment
	if err := r.db.GetContext(ctx, &assignment, "SELECT "+assignmentColumns+" FROM class_assignments WHERE id = $1", id); err != nil {
		return nil, err
	}
	list := []models.ClassAssignment{assignment}
	if err := r.attachSlots(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List returns assignments matching the filter with their slots.
func (r *ClassAssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.ClassAssignment, int, error) {
	base := "FROM class_assignments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.SchoolYear != "" {
		conditions = append(conditions, fmt.Sprintf("school_year = $%d", len(args)+1))
		args = append(args, filter.SchoolYear)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", assignmentColumns, base, size, (page-1)*size)

	var assignments []models.ClassAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class assignments: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count class assignments: %w", err)
	}
	if err := r.attachSlots(ctx, assignments); err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

// ListLiveByCourse returns the planned and active assignments of a course.
func (r *ClassAssignmentRepository) ListLiveByCourse(ctx context.Context, courseID string) ([]models.ClassAssignment, error) {
	query := "SELECT " + assignmentColumns + " FROM class_assignments WHERE course_id = $1 AND status IN " + liveStatuses
	var assignments []models.ClassAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("list live course assignments: %w", err)
	}
	return assignments, nil
}

// ExistsLive reports whether a planned or active assignment binds the course to the class for the year.
func (r *ClassAssignmentRepository) ExistsLive(ctx context.Context, courseID, classID, schoolYear string) (bool, error) {
	query := "SELECT 1 FROM class_assignments WHERE course_id = $1 AND class_id = $2 AND school_year = $3 AND status IN " + liveStatuses + " LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, courseID, classID, schoolYear); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check duplicate assignment: %w", err)
	}
	return true, nil
}

// ClassSchedule returns the schedule version of a class and every slot of its live assignments.
func (r *ClassAssignmentRepository) ClassSchedule(ctx context.Context, classID string) (int64, []models.TimeSlot, error) {
	var version int64
	if err := r.db.GetContext(ctx, &version, "SELECT schedule_version FROM classes WHERE id = $1", classID); err != nil {
		return 0, nil, err
	}
	query := "SELECT " + slotColumns + ` FROM assignment_slots s JOIN class_assignments a ON a.id = s.assignment_id
WHERE s.class_id = $1 AND a.status IN ` + liveStatuses + " ORDER BY s.day_of_week, s.start_time"
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, classID); err != nil {
		return 0, nil, fmt.Errorf("list class slots: %w", err)
	}
	return version, slots, nil
}

// RoomSlots returns live slots booked in the room, compared case-insensitively.
func (r *ClassAssignmentRepository) RoomSlots(ctx context.Context, room string) ([]models.TimeSlot, error) {
	query := "SELECT " + slotColumns + ` FROM assignment_slots s JOIN class_assignments a ON a.id = s.assignment_id
WHERE LOWER(TRIM(s.room)) = LOWER(TRIM($1)) AND a.status IN ` + liveStatuses
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, room); err != nil {
		return nil, fmt.Errorf("list room slots: %w", err)
	}
	return slots, nil
}

// ListClassSubjects returns the subjects taught to a class in a school year with their coefficients.
func (r *ClassAssignmentRepository) ListClassSubjects(ctx context.Context, classID, schoolYear string) ([]models.ClassSubject, error) {
	const query = `SELECT c.subject_id, MIN(c.title) AS subject_name, MAX(c.coefficient) AS coefficient
FROM class_assignments a JOIN courses c ON c.id = a.course_id
WHERE a.class_id = $1 AND a.school_year = $2 AND a.status <> 'cancelled'
GROUP BY c.subject_id ORDER BY subject_name`
	var subjects []models.ClassSubject
	if err := r.db.SelectContext(ctx, &subjects, query, classID, schoolYear); err != nil {
		return nil, fmt.Errorf("list class subjects: %w", err)
	}
	return subjects, nil
}

// Create inserts a new assignment without slots.
func (r *ClassAssignmentRepository) Create(ctx context.Context, assignment *models.ClassAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	const query = `INSERT INTO class_assignments (id, course_id, class_id, school_year, start_date, end_date, weekly_hours, total_weekly_hours, status, progression, notes, created_at, updated_at)
VALUES (:id, :course_id, :class_id, :school_year, :start_date, :end_date, :weekly_hours, :total_weekly_hours, :status, :progression, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create class assignment: %w", err)
	}
	return nil
}

// Update persists the scalar fields of an assignment if its stored status is
// still expected.
func (r *ClassAssignmentRepository) Update(ctx context.Context, assignment *models.ClassAssignment, expected models.AssignmentStatus) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_assignments SET end_date = $1, weekly_hours = $2, total_weekly_hours = $3,
status = $4, progression = $5, notes = $6, updated_at = $7 WHERE id = $8 AND status = $9`
	result, err := r.db.ExecContext(ctx, query,
		assignment.EndDate, assignment.WeeklyHours, assignment.TotalWeeklyHours,
		assignment.Status, assignment.Progression, assignment.Notes, assignment.UpdatedAt,
		assignment.ID, expected)
	if err != nil {
		return fmt.Errorf("update class assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update class assignment: %w", err)
	}
	if affected == 0 {
		return ErrAssignmentChanged
	}
	return nil
}

// InsertSlot stores a new slot if the class schedule is still at expectedVersion.
func (r *ClassAssignmentRepository) InsertSlot(ctx context.Context, expectedVersion int64, slot *models.TimeSlot, totalWeeklyHours float64) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	return r.writeSchedule(ctx, slot.ClassID, expectedVersion, func(tx *sqlx.Tx) error {
		if err := lockRoom(ctx, tx, *slot); err != nil {
			return err
		}
		const query = `INSERT INTO assignment_slots (id, assignment_id, class_id, day_of_week, start_time, end_time, room, created_at)
VALUES (:id, :assignment_id, :class_id, :day_of_week, :start_time, :end_time, :room, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, slot); err != nil {
			return fmt.Errorf("insert assignment slot: %w", err)
		}
		return setTotalHours(ctx, tx, slot.AssignmentID, totalWeeklyHours)
	})
}

// UpdateSlot replaces an existing slot if the class schedule is still at expectedVersion.
func (r *ClassAssignmentRepository) UpdateSlot(ctx context.Context, expectedVersion int64, slot *models.TimeSlot, totalWeeklyHours float64) error {
	return r.writeSchedule(ctx, slot.ClassID, expectedVersion, func(tx *sqlx.Tx) error {
		if err := lockRoom(ctx, tx, *slot); err != nil {
			return err
		}
		const query = `UPDATE assignment_slots SET day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, room = :room
WHERE id = :id AND assignment_id = :assignment_id`
		if _, err := tx.NamedExecContext(ctx, query, slot); err != nil {
			return fmt.Errorf("update assignment slot: %w", err)
		}
		return setTotalHours(ctx, tx, slot.AssignmentID, totalWeeklyHours)
	})
}

// DeleteSlot removes a slot and bumps the class schedule version.
func (r *ClassAssignmentRepository) DeleteSlot(ctx context.Context, expectedVersion int64, slot models.TimeSlot, totalWeeklyHours float64) error {
	return r.writeSchedule(ctx, slot.ClassID, expectedVersion, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM assignment_slots WHERE id = $1 AND assignment_id = $2", slot.ID, slot.AssignmentID); err != nil {
			return fmt.Errorf("delete assignment slot: %w", err)
		}
		return setTotalHours(ctx, tx, slot.AssignmentID, totalWeeklyHours)
	})
}

// writeSchedule bumps classes.schedule_version with a compare-and-swap and runs fn in the same transaction.
func (r *ClassAssignmentRepository) writeSchedule(ctx context.Context, classID string, expectedVersion int64, fn func(tx *sqlx.Tx) error) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE classes SET schedule_version = schedule_version + 1, updated_at = $3 WHERE id = $1 AND schedule_version = $2",
			classID, expectedVersion, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("bump schedule version: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("bump schedule version: %w", err)
		}
		if affected == 0 {
			return ErrStaleSchedule
		}
		return fn(tx)
	})
}

// lockRoom serialises bookings of one room across classes and rejects a slot
// that overlaps a booking committed after validation.
func lockRoom(ctx context.Context, tx *sqlx.Tx, slot models.TimeSlot) error {
	room := slot.RoomName()
	if room == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext(LOWER($1)))", room); err != nil {
		return fmt.Errorf("lock room: %w", err)
	}
	query := `SELECT COUNT(*) FROM assignment_slots s JOIN class_assignments a ON a.id = s.assignment_id
WHERE LOWER(TRIM(s.room)) = LOWER($1) AND s.day_of_week = $2 AND s.start_time < $3 AND $4 < s.end_time AND s.id <> $5 AND a.status IN ` + liveStatuses
	var clashes int
	if err := tx.GetContext(ctx, &clashes, query, room, slot.Day, slot.End, slot.Start, slot.ID); err != nil {
		return fmt.Errorf("check room bookings: %w", err)
	}
	if clashes > 0 {
		return ErrRoomTaken
	}
	return nil
}

func setTotalHours(ctx context.Context, tx *sqlx.Tx, assignmentID string, total float64) error {
	if _, err := tx.ExecContext(ctx, "UPDATE class_assignments SET total_weekly_hours = $2, updated_at = $3 WHERE id = $1", assignmentID, total, time.Now().UTC()); err != nil {
		return fmt.Errorf("update total weekly hours: %w", err)
	}
	return nil
}

func (r *ClassAssignmentRepository) attachSlots(ctx context.Context, assignments []models.ClassAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	ids := make([]string, len(assignments))
	for i := range assignments {
		ids[i] = assignments[i].ID
		assignments[i].Slots = []models.TimeSlot{}
	}
	query := "SELECT " + slotColumns + " FROM assignment_slots s WHERE s.assignment_id = ANY($1) ORDER BY s.day_of_week, s.start_time"
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("list assignment slots: %w", err)
	}
	index := make(map[string]int, len(assignments))
	for i := range assignments {
		index[assignments[i].ID] = i
	}
	for _, slot := range slots {
		if i, ok := index[slot.AssignmentID]; ok {
			assignments[i].Slots = append(assignments[i].Slots, slot)
		}
	}
	return nil
}
