package models

import "time"

// MeetingRegistration records that a profile intends to attend a meeting.
// At most one exists per (meeting, user) pair.
type MeetingRegistration struct {
	ID           string    `json:"id" db:"id"`
	MeetingID    string    `json:"meeting_id" db:"meeting_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	// Populated when listing a meeting's attendees
	UserName  string `json:"user_name,omitempty" db:"full_name"`
	UserEmail string `json:"user_email,omitempty" db:"email"`
}

// MeetingSlot is the capacity counter of one meeting
type MeetingSlot struct {
	MeetingID       string `db:"meeting_id"`
	MaxParticipants int    `db:"max_participants"`
	RegisteredCount int    `db:"registered_count"`
}
