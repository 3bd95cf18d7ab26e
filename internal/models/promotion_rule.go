package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// RuleConditions maps a supplementary criterion name to its minimum value.
type RuleConditions map[string]float64

// Scan implements sql.Scanner.
func (c *RuleConditions) Scan(src interface{}) error {
	return scanJSON(src, c)
}

// Value implements driver.Valuer.
func (c RuleConditions) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// PromotionRule is the policy deciding whether a student passes to the next level.
// At most one rule is active at any time.
type PromotionRule struct {
	ID             string         `db:"id" json:"id"`
	MinimumAverage float64        `db:"minimum_average" json:"moyenne_minimale"`
	Conditions     RuleConditions `db:"conditions" json:"conditions_supplementaires"`
	Active         bool           `db:"active" json:"actif"`
	CreatedBy      *string        `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	ActivatedAt    *time.Time     `db:"activated_at" json:"activated_at,omitempty"`
}
