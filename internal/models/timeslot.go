package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday is a teaching day. Only Monday through Saturday are schedulable.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
)

var weekdayOrder = map[Weekday]int{
	Monday:    1,
	Tuesday:   2,
	Wednesday: 3,
	Thursday:  4,
	Friday:    5,
	Saturday:  6,
}

// ParseWeekday normalises a day name ("lundi" and "monday" are both accepted).
func ParseWeekday(raw string) (Weekday, bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	switch v {
	case "LUNDI":
		v = string(Monday)
	case "MARDI":
		v = string(Tuesday)
	case "MERCREDI":
		v = string(Wednesday)
	case "JEUDI":
		v = string(Thursday)
	case "VENDREDI":
		v = string(Friday)
	case "SAMEDI":
		v = string(Saturday)
	}
	day := Weekday(v)
	return day, day.Valid()
}

// Valid reports whether the day is schedulable.
func (d Weekday) Valid() bool {
	_, ok := weekdayOrder[d]
	return ok
}

// Order returns 1 for Monday through 6 for Saturday, 0 when invalid.
func (d Weekday) Order() int {
	return weekdayOrder[d]
}

// ClockTime is a time of day stored as minutes since midnight.
type ClockTime int

// NewClockTime builds a ClockTime from hours and minutes.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime accepts "HH:MM" and "HH:MM:SS".
func ParseClockTime(raw string) (ClockTime, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return NewClockTime(t.Hour(), t.Minute()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", raw)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalJSON renders the time as "HH:MM".
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses "HH:MM".
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan implements sql.Scanner for TIME columns.
func (c *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*c = NewClockTime(v.Hour(), v.Minute())
		return nil
	case []byte:
		return c.scanString(string(v))
	case string:
		return c.scanString(v)
	case nil:
		*c = 0
		return nil
	}
	return fmt.Errorf("unsupported clock time source %T", src)
}

func (c *ClockTime) scanString(raw string) error {
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer.
func (c ClockTime) Value() (driver.Value, error) {
	return c.String() + ":00", nil
}

// TimeSlot is a weekly recurring interval [Start, End) owned by one assignment.
type TimeSlot struct {
	ID           string    `db:"id" json:"id"`
	AssignmentID string    `db:"assignment_id" json:"affectation_id"`
	ClassID      string    `db:"class_id" json:"classe_id"`
	Day          Weekday   `db:"day_of_week" json:"jour"`
	Start        ClockTime `db:"start_time" json:"heure_debut"`
	End          ClockTime `db:"end_time" json:"heure_fin"`
	Room         *string   `db:"room" json:"salle,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Minutes returns the slot duration.
func (s TimeSlot) Minutes() int {
	return int(s.End - s.Start)
}

// Overlaps reports whether both slots share a day and their half-open intervals intersect.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Day == other.Day && s.Start < other.End && other.Start < s.End
}

// RoomName returns the trimmed room, empty when unset.
func (s TimeSlot) RoomName() string {
	if s.Room == nil {
		return ""
	}
	return strings.TrimSpace(*s.Room)
}

// SameRoom compares rooms case-insensitively. Slots without a room never share one.
func (s TimeSlot) SameRoom(other TimeSlot) bool {
	a, b := s.RoomName(), other.RoomName()
	return a != "" && strings.EqualFold(a, b)
}

// SlotConflictError carries the slot that blocked a schedule change.
type SlotConflictError struct {
	Conflicting TimeSlot
	Room        bool
}

func (e *SlotConflictError) Error() string {
	if e.Room {
		return fmt.Sprintf("room %s already booked on %s %s-%s", e.Conflicting.RoomName(), e.Conflicting.Day, e.Conflicting.Start, e.Conflicting.End)
	}
	return fmt.Sprintf("class already busy on %s %s-%s", e.Conflicting.Day, e.Conflicting.Start, e.Conflicting.End)
}

// BudgetExceededError reports the weekly budget and the total an operation attempted.
type BudgetExceededError struct {
	BudgetHours    float64
	AttemptedHours float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("weekly hours %.2f exceed budget %.2f", e.AttemptedHours, e.BudgetHours)
}
