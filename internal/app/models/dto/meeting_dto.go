package dto

import (
	"strings"
	"time"

	"github.com/svce/alumniconnect/internal/app/models"
)

// CreateMeetingRequest is the meeting scheduling form. Omitted duration and capacity take configured defaults.
type CreateMeetingRequest struct {
	Title           string     `json:"title" binding:"max=200" example:"Careers in Data Engineering"`
	Description     *string    `json:"description,omitempty" binding:"omitempty,max=5000"`
	MeetingDate     *time.Time `json:"meeting_date" example:"2026-11-01T15:30:00Z"`
	DurationMinutes *int       `json:"duration_minutes,omitempty" example:"60"`
	MaxParticipants *int       `json:"max_participants,omitempty" example:"50"`
}

// UpdateMeetingRequest is a partial meeting update
type UpdateMeetingRequest struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	MeetingDate     *time.Time `json:"meeting_date,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
}

// ToPatch converts the request into a model patch
func (r UpdateMeetingRequest) ToPatch() models.MeetingPatch {
	p := models.MeetingPatch{
		Title:           trimmed(r.Title),
		Description:     trimmed(r.Description),
		DurationMinutes: r.DurationMinutes,
		MaxParticipants: r.MaxParticipants,
	}
	if r.MeetingDate != nil {
		d := r.MeetingDate.UTC()
		p.MeetingDate = &d
	}
	return p
}

// MeetingListQuery filters the meeting list. Status is a time status or "past".
type MeetingListQuery struct {
	Status string `form:"status"`
	HostID string `form:"host_id"`
}

// NormalizedStatus lower-cases and trims the status filter
func (q MeetingListQuery) NormalizedStatus() string {
	return strings.ToLower(strings.TrimSpace(q.Status))
}

// MeetingResponse adds registration and time-derived fields to a Meeting
type MeetingResponse struct {
	*models.Meeting
	IsActive          bool              `json:"is_active"`
	RegistrationCount int               `json:"registration_count"`
	SpotsLeft         int               `json:"spots_left"`
	IsRegistered      bool              `json:"is_registered"`
	TimeStatus        models.TimeStatus `json:"time_status"`
	IsLive            bool              `json:"is_live"`
}

// NewMeetingResponse derives the read-time fields of m at now.
// Join details are blanked unless showAccess is set.
func NewMeetingResponse(m *models.Meeting, now time.Time, count int, registered, showAccess bool) *MeetingResponse {
	spots := m.MaxParticipants - count
	if spots < 0 {
		spots = 0
	}
	view := *m
	if !showAccess {
		view.MeetingURL, view.ExternalID, view.Password = "", "", ""
	}
	return &MeetingResponse{
		Meeting:           &view,
		IsActive:          m.IsActive(),
		RegistrationCount: count,
		SpotsLeft:         spots,
		IsRegistered:      registered,
		TimeStatus:        models.ClassifyMeetingTime(now, m.MeetingDate),
		IsLive:            models.IsLive(now, m.MeetingDate, m.Duration()),
	}
}

// MeetingCreatedResponse is returned by POST /meetings
type MeetingCreatedResponse struct {
	Success bool             `json:"success" example:"true"`
	ID      string           `json:"id"`
	Meeting *MeetingResponse `json:"meeting"`
}

// RegistrationResponse is returned by a successful registration
type RegistrationResponse struct {
	Success      bool                        `json:"success" example:"true"`
	Registration *models.MeetingRegistration `json:"registration"`
	SpotsLeft    int                         `json:"spots_left"`
}
