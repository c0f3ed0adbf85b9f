package models

import (
	"encoding/json"
	"errors"
	"time"
)

// ActivityLevel distinguishes routine activity entries from error entries
type ActivityLevel string

const (
	ActivityInfo  ActivityLevel = "info"
	ActivityError ActivityLevel = "error"
)

// ActivityLog represents a single activity or error log entry
type ActivityLog struct {
	ID         int             `json:"id" db:"id"`
	UserID     *int            `json:"user_id,omitempty" db:"user_id"`
	Level      ActivityLevel   `json:"level" db:"level"`
	Action     string          `json:"action" db:"action"`
	TargetType string          `json:"target_type" db:"target_type"`
	TargetID   int             `json:"target_id" db:"target_id"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress  string          `json:"ip_address" db:"ip_address"`
	UserAgent  string          `json:"user_agent" db:"user_agent"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// ActivityLogCreateRequest represents the data needed to record an activity
type ActivityLogCreateRequest struct {
	UserID     *int            `json:"user_id"`
	Level      ActivityLevel   `json:"level"`
	Action     string          `json:"action"`
	TargetType string          `json:"target_type"`
	TargetID   int             `json:"target_id"`
	Details    json.RawMessage `json:"details"`
	IPAddress  string          `json:"ip_address"`
	UserAgent  string          `json:"user_agent"`
}

// Validate validates an activity log request
func (req *ActivityLogCreateRequest) Validate() error {
	if req.Action == "" {
		return errors.New("action is required")
	}

	if len(req.Action) > 100 {
		return errors.New("action must be less than 100 characters")
	}

	switch req.Level {
	case ActivityInfo, ActivityError:
	default:
		return errors.New("invalid activity level")
	}

	return nil
}
