package models

import "time"

// Audit actions recorded by the mutation services and the admin routes.
const (
	AuditActionTrackMentoredMode = "TRACK_MENTORED_MODE"
	AuditActionMentorshipStart   = "SOLUTION_MENTORSHIP_START"
	AuditActionMentorshipIgnore  = "SOLUTION_MENTORSHIP_IGNORE"
	AuditActionMentorshipAbandon = "SOLUTION_MENTORSHIP_ABANDON"
	AuditActionMentorRecount     = "SOLUTION_MENTOR_RECOUNT"
	AuditActionRecountTrigger    = "SOLUTION_MENTOR_RECOUNT_TRIGGER"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
