package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

const classColumns = "id, name, level, school_year, schedule_version, created_at, updated_at"

// ClassRepository reads classes. Classes are managed by the school
// administration tool; the portal core never writes them except to bump
// their schedule version.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID loads a class. A blank id yields sql.ErrNoRows without a round trip.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, sql.ErrNoRows
	}
	var class models.Class
	if err := r.db.GetContext(ctx, &class, "SELECT "+classColumns+" FROM classes WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class %s: %w", id, err)
	}
	return &class, nil
}
