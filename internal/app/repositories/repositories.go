package repositories

import (
	"context"
	"time"

	"github.com/svce/alumniconnect/internal/app/models"
)

// ProfileRepository persists profiles in the relational store
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// Update writes the self-editable fields of profile
	Update(ctx context.Context, profile *models.Profile) error
	SetApproved(ctx context.Context, id string, approved bool) error
	// DeletePending removes a profile that has not been approved yet
	DeletePending(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error)
	Count(ctx context.Context, filter models.ProfileFilter) (int64, error)
}

// JobRepository persists jobs in the document store
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	// GetByID returns the job regardless of status
	GetByID(ctx context.Context, id string) (*models.Job, error)
	// List returns active jobs, newest first
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	Count(ctx context.Context, filter models.JobFilter) (int64, error)
	// Update applies patch to an active job; archived and unknown ids are not found
	Update(ctx context.Context, id string, patch models.JobPatch, now time.Time) error
	Archive(ctx context.Context, id string, now time.Time) error
	SetApproved(ctx context.Context, id string, approved bool, now time.Time) error
}

// MeetingRepository persists meetings in the document store
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	// GetByID returns the meeting regardless of status
	GetByID(ctx context.Context, id string) (*models.Meeting, error)
	// List returns active meetings ordered by meeting_date ascending
	List(ctx context.Context, filter models.MeetingFilter) ([]*models.Meeting, error)
	Count(ctx context.Context, filter models.MeetingFilter) (int64, error)
	// Update applies patch to an active meeting; archived and unknown ids are not found
	Update(ctx context.Context, id string, patch models.MeetingPatch, now time.Time) error
	Archive(ctx context.Context, id string, now time.Time) error
}

// RegistrationRepository owns meeting capacity and registrations in the relational store.
// Register must be atomic: the count never exceeds the slot's max participants.
type RegistrationRepository interface {
	// UpsertSlot opens or resizes the capacity slot of a meeting.
	// Shrinking below the current registration count fails with a validation error.
	UpsertSlot(ctx context.Context, meetingID string, maxParticipants int) error
	GetSlot(ctx context.Context, meetingID string) (*models.MeetingSlot, error)
	Register(ctx context.Context, registration *models.MeetingRegistration) error
	Cancel(ctx context.Context, meetingID, userID string) error
	IsRegistered(ctx context.Context, meetingID, userID string) (bool, error)
	// Counts returns registration counts keyed by meeting id; missing ids count zero
	Counts(ctx context.Context, meetingIDs []string) (map[string]int, error)
	MeetingIDsForUser(ctx context.Context, userID string) ([]string, error)
	ListByMeeting(ctx context.Context, meetingID string) ([]*models.MeetingRegistration, error)
	CountAll(ctx context.Context) (int64, error)
}

// NotificationRepository persists notifications in the relational store
type NotificationRepository interface {
	CreateMany(ctx context.Context, notifications []*models.Notification) error
	ListByUser(ctx context.Context, userID string, offset uint64, limit int) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// Pinger is implemented by backing stores that can report health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository      ProfileRepository
	JobRepository          JobRepository
	MeetingRepository      MeetingRepository
	RegistrationRepository RegistrationRepository
	NotificationRepository NotificationRepository
	// Health lists the stores to ping, keyed by name
	Health map[string]Pinger
}

var (
	_ ProfileRepository      = (*PostgresProfileRepository)(nil)
	_ RegistrationRepository = (*PostgresRegistrationRepository)(nil)
	_ NotificationRepository = (*PostgresNotificationRepository)(nil)
	_ JobRepository          = (*MongoJobRepository)(nil)
	_ MeetingRepository      = (*MongoMeetingRepository)(nil)
)
