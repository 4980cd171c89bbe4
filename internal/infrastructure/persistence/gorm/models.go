// Package gorm provides the GORM models and repositories for saved plans.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/v1/internal/domain/planner"
)

// PlanModel is the persisted form of a saved weekly plan. The schedule is
// stored as a JSON document; plans are read back whole, never queried by
// their interior.
type PlanModel struct {
	ID        uuid.UUID    `gorm:"type:char(36);primaryKey"`
	Owner     string       `gorm:"type:varchar(255);not null;index"`
	Title     string       `gorm:"type:varchar(255);not null"`
	Schedule  ScheduleJSON `gorm:"type:json;not null"`
	CreatedAt time.Time
}

// TableName overrides the default pluralization.
func (PlanModel) TableName() string {
	return "saved_plans"
}

// ScheduleJSON stores a weekly schedule as a JSON column.
type ScheduleJSON planner.WeeklySchedule

// Value implements driver.Valuer.
func (s ScheduleJSON) Value() (driver.Value, error) {
	data, err := json.Marshal(planner.WeeklySchedule(s))
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *ScheduleJSON) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*s = ScheduleJSON{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ScheduleJSON", value)
	}

	var schedule planner.WeeklySchedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return fmt.Errorf("unmarshal schedule: %w", err)
	}
	*s = ScheduleJSON(schedule)
	return nil
}
