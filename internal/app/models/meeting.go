package models

import "time"

// TimeStatus classifies a meeting against the current time. It is derived on read and never stored.
type TimeStatus string

const (
	TimeStatusUpcoming     TimeStatus = "upcoming"
	TimeStatusImminent     TimeStatus = "imminent"
	TimeStatusStartingSoon TimeStatus = "starting_soon"
	TimeStatusCompleted    TimeStatus = "completed"
)

// Valid reports whether s is a known time status
func (s TimeStatus) Valid() bool {
	switch s {
	case TimeStatusUpcoming, TimeStatusImminent, TimeStatusStartingSoon, TimeStatusCompleted:
		return true
	}
	return false
}

// Meeting is a scheduled virtual session, stored in the 'meetings' collection
type Meeting struct {
	ID              string    `json:"id" example:"665f1c2e9b1d4c3a2f0e1d2d"`
	Title           string    `json:"title" example:"Careers in Data Engineering"`
	Description     *string   `json:"description,omitempty"`
	HostID          string    `json:"host_id"`
	MeetingDate     time.Time `json:"meeting_date"`
	DurationMinutes int       `json:"duration_minutes" example:"60"`
	MaxParticipants int       `json:"max_participants" example:"50"`
	MeetingURL      string    `json:"meeting_url,omitempty" example:"https://meet.google.com/k3j9x0q2zr"`
	ExternalID      string    `json:"meeting_id,omitempty" example:"K3J9X0Q2ZR"`
	Password        string    `json:"password,omitempty" example:"a1b2c3"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsActive reports whether the meeting has not been archived
func (m *Meeting) IsActive() bool {
	return m.Status == StatusActive
}

// Duration returns the scheduled length of the meeting
func (m *Meeting) Duration() time.Duration {
	return time.Duration(m.DurationMinutes) * time.Minute
}

// RegistrationOpen reports whether new registrations may be accepted at now
func (m *Meeting) RegistrationOpen(now time.Time) bool {
	return m.IsActive() && now.Before(m.MeetingDate)
}

// ClassifyMeetingTime derives the time status of a meeting scheduled at date
func ClassifyMeetingTime(now, date time.Time) TimeStatus {
	diff := date.Sub(now)
	switch {
	case diff <= 0:
		return TimeStatusCompleted
	case diff < time.Hour:
		return TimeStatusStartingSoon
	case diff < 24*time.Hour:
		return TimeStatusImminent
	default:
		return TimeStatusUpcoming
	}
}

// IsLive reports whether now falls inside [date, date+duration)
func IsLive(now, date time.Time, duration time.Duration) bool {
	return !now.Before(date) && now.Before(date.Add(duration))
}

// MeetingFilter narrows meeting listings. Only active meetings are ever listed.
type MeetingFilter struct {
	HostID string
	// IDs restricts the listing to the given meeting ids when non-nil
	IDs []string
	// From and Until bound meeting_date as [From, Until) when non-zero
	From  time.Time
	Until time.Time
	Limit int64
}

// MeetingPatch holds the fields an update may change. Nil means unchanged.
type MeetingPatch struct {
	Title           *string
	Description     *string
	MeetingDate     *time.Time
	DurationMinutes *int
	MaxParticipants *int
}

// Empty reports whether the patch changes nothing
func (p MeetingPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.MeetingDate == nil &&
		p.DurationMinutes == nil && p.MaxParticipants == nil
}

// Apply merges the patch into m
func (p MeetingPatch) Apply(m *Meeting) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = nilIfEmpty(*p.Description)
	}
	if p.MeetingDate != nil {
		m.MeetingDate = *p.MeetingDate
	}
	if p.DurationMinutes != nil {
		m.DurationMinutes = *p.DurationMinutes
	}
	if p.MaxParticipants != nil {
		m.MaxParticipants = *p.MaxParticipants
	}
}
