package models

// UserRole distinguishes platform administrators from regular users.
// Mentor rights are not a role; they come from TrackMentorship rows.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)
