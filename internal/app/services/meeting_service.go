package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/svce/alumniconnect/internal/app/auth"
	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
	"github.com/svce/alumniconnect/internal/pkg/meetinggen"
)

// Meeting list status filters besides the time statuses
const (
	MeetingFilterPast = "past"
)

// Upper bounds on meeting size and length
const (
	MaxMeetingDurationMinutes = 24 * 60
	MaxMeetingParticipants    = 1000
)

var (
	errMeetingDateInPast = apperrors.NewValidationError("Meeting date and time must be in the future")
	errDurationRange     = apperrors.NewValidationError(fmt.Sprintf("Duration must be between 1 and %d minutes", MaxMeetingDurationMinutes))
	errCapacityRange     = apperrors.NewValidationError(fmt.Sprintf("Max participants must be between 1 and %d", MaxMeetingParticipants))
)

// AccessGenerator produces join details for new meetings. *meetinggen.Generator satisfies it.
type AccessGenerator interface {
	Generate() (meetinggen.Access, error)
}

// MeetingService runs meeting scheduling and registration
type MeetingService interface {
	List(ctx context.Context, caller *models.Profile, query dto.MeetingListQuery) ([]*dto.MeetingResponse, error)
	Get(ctx context.Context, caller *models.Profile, id string) (*dto.MeetingResponse, error)
	Create(ctx context.Context, caller *models.Profile, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error)
	Update(ctx context.Context, caller *models.Profile, id string, patch models.MeetingPatch) error
	Delete(ctx context.Context, caller *models.Profile, id string) error

	Register(ctx context.Context, caller *models.Profile, id string) (*dto.RegistrationResponse, error)
	Cancel(ctx context.Context, caller *models.Profile, id string) error
	ListRegistrations(ctx context.Context, caller *models.Profile, id string) ([]*models.MeetingRegistration, error)
	MyMeetings(ctx context.Context, caller *models.Profile) ([]*dto.MeetingResponse, error)
}

type meetingServiceImpl struct {
	meetingRepo      repositories.MeetingRepository
	registrationRepo repositories.RegistrationRepository
	notifications    NotificationService
	generator        AccessGenerator
	opts             Options
	now              helpers.Clock
	logger           zerolog.Logger
}

// NewMeetingService creates a new meeting service instance
func NewMeetingService(
	meetingRepo repositories.MeetingRepository,
	registrationRepo repositories.RegistrationRepository,
	notifications NotificationService,
	generator AccessGenerator,
	opts Options,
	logger zerolog.Logger,
) MeetingService {
	return &meetingServiceImpl{
		meetingRepo:      meetingRepo,
		registrationRepo: registrationRepo,
		notifications:    notifications,
		generator:        generator,
		opts:             opts,
		now:              opts.now(),
		logger:           logger,
	}
}

// enrich derives the read-time fields for meetings as seen by caller at now
func (s *meetingServiceImpl) enrich(ctx context.Context, caller *models.Profile, meetings []*models.Meeting, now time.Time) ([]*dto.MeetingResponse, error) {
	ids := make([]string, 0, len(meetings))
	for _, m := range meetings {
		ids = append(ids, m.ID)
	}

	counts, err := s.registrationRepo.Counts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error counting registrations: %w", err)
	}

	registered := map[string]bool{}
	if caller != nil && len(meetings) > 0 {
		mine, err := s.registrationRepo.MeetingIDsForUser(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading registrations: %w", err)
		}
		for _, id := range mine {
			registered[id] = true
		}
	}

	out := make([]*dto.MeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, dto.NewMeetingResponse(m, now, counts[m.ID], registered[m.ID], canSeeAccess(caller, m, registered[m.ID])))
	}
	return out, nil
}

// canSeeAccess reports whether caller may see the join details of m
func canSeeAccess(caller *models.Profile, m *models.Meeting, registered bool) bool {
	if caller == nil {
		return false
	}
	return registered || caller.ID == m.HostID || auth.CanAdminister(caller)
}

// statusPredicate turns a list status filter into a query window and a final check
func statusPredicate(status string, now time.Time) (models.MeetingFilter, func(models.TimeStatus) bool, error) {
	switch status {
	case "":
		return models.MeetingFilter{}, nil, nil
	case string(models.TimeStatusUpcoming):
		// Every meeting that has not started yet
		return models.MeetingFilter{From: now}, func(ts models.TimeStatus) bool { return ts != models.TimeStatusCompleted }, nil
	case MeetingFilterPast, string(models.TimeStatusCompleted):
		return models.MeetingFilter{Until: now.Add(time.Nanosecond)}, func(ts models.TimeStatus) bool { return ts == models.TimeStatusCompleted }, nil
	case string(models.TimeStatusStartingSoon):
		return models.MeetingFilter{From: now, Until: now.Add(time.Hour)}, func(ts models.TimeStatus) bool { return ts == models.TimeStatusStartingSoon }, nil
	case string(models.TimeStatusImminent):
		return models.MeetingFilter{From: now, Until: now.Add(24 * time.Hour)}, func(ts models.TimeStatus) bool { return ts == models.TimeStatusImminent }, nil
	}
	return models.MeetingFilter{}, nil, apperrors.NewValidationError("Invalid status filter. Must be one of: upcoming, past, completed, starting_soon, imminent")
}

func (s *meetingServiceImpl) List(ctx context.Context, caller *models.Profile, query dto.MeetingListQuery) ([]*dto.MeetingResponse, error) {
	now := s.now()
	filter, keep, err := statusPredicate(query.NormalizedStatus(), now)
	if err != nil {
		return nil, err
	}
	filter.HostID = strings.TrimSpace(query.HostID)

	meetings, err := s.meetingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing meetings: %w", err)
	}
	if keep != nil {
		kept := meetings[:0]
		for _, m := range meetings {
			if keep(models.ClassifyMeetingTime(now, m.MeetingDate)) {
				kept = append(kept, m)
			}
		}
		meetings = kept
	}

	return s.enrich(ctx, caller, meetings, now)
}

func (s *meetingServiceImpl) getActive(ctx context.Context, id string) (*models.Meeting, error) {
	m, err := s.meetingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting meeting: %w", err)
	}
	if !m.IsActive() {
		return nil, apperrors.ErrMeetingNotFound
	}
	return m, nil
}

func (s *meetingServiceImpl) Get(ctx context.Context, caller *models.Profile, id string) (*dto.MeetingResponse, error) {
	m, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.enrich(ctx, caller, []*models.Meeting{m}, s.now())
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *meetingServiceImpl) Create(ctx context.Context, caller *models.Profile, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	if err := auth.RequirePoster(caller, "schedule meetings"); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if req.MeetingDate == nil || req.MeetingDate.IsZero() {
		missing = append(missing, "meeting_date")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("Please fill in all required fields: " + strings.Join(missing, ", "))
	}

	now := s.now()
	date := req.MeetingDate.UTC()
	if !date.After(now) {
		return nil, errMeetingDateInPast
	}

	duration := s.opts.DefaultMeetingDuration
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	if duration < 1 || duration > MaxMeetingDurationMinutes {
		return nil, errDurationRange
	}
	capacity := s.opts.DefaultMaxParticipants
	if req.MaxParticipants != nil {
		capacity = *req.MaxParticipants
	}
	if capacity < 1 || capacity > MaxMeetingParticipants {
		return nil, errCapacityRange
	}

	access, err := s.generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("error generating meeting access: %w", err)
	}

	m := &models.Meeting{
		Title:           title,
		Description:     helpers.NullIfBlank(req.Description),
		HostID:          caller.ID,
		MeetingDate:     date,
		DurationMinutes: duration,
		MaxParticipants: capacity,
		MeetingURL:      access.URL,
		ExternalID:      access.MeetingID,
		Password:        access.Password,
		Status:          models.StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.meetingRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("error creating meeting: %w", err)
	}

	if err := s.registrationRepo.UpsertSlot(ctx, m.ID, capacity); err != nil {
		// Without a slot nobody could register, so take the meeting down again
		if archiveErr := s.meetingRepo.Archive(ctx, m.ID, now); archiveErr != nil {
			s.logger.Error().Err(archiveErr).Str("meetingID", m.ID).Msg("Failed to archive meeting after slot error")
		}
		return nil, fmt.Errorf("error opening meeting registrations: %w", err)
	}

	s.logger.Info().Str("meetingID", m.ID).Str("hostID", caller.ID).Time("meetingDate", date).Msg("Meeting scheduled")
	s.notifications.NotifyMembers(ctx, caller.ID, models.NotificationMeetingScheduled,
		"New meeting scheduled",
		fmt.Sprintf("%s scheduled %q on %s", caller.FullName, m.Title, date.Format("Jan 2, 2006 15:04 MST")))

	return dto.NewMeetingResponse(m, now, 0, false, true), nil
}

func (s *meetingServiceImpl) loadForChange(ctx context.Context, caller *models.Profile, id, action string) (*models.Meeting, error) {
	if caller == nil {
		return nil, auth.RequirePoster(nil, action)
	}
	m, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrAdmin(caller, m.HostID, action); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *meetingServiceImpl) Update(ctx context.Context, caller *models.Profile, id string, patch models.MeetingPatch) error {
	if _, err := s.loadForChange(ctx, caller, id, "edit meetings"); err != nil {
		return err
	}

	now := s.now()
	if patch.Title != nil && *patch.Title == "" {
		return apperrors.NewValidationError("title cannot be empty")
	}
	if patch.MeetingDate != nil && !patch.MeetingDate.After(now) {
		return errMeetingDateInPast
	}
	if patch.DurationMinutes != nil && (*patch.DurationMinutes < 1 || *patch.DurationMinutes > MaxMeetingDurationMinutes) {
		return errDurationRange
	}
	if patch.MaxParticipants == nil {
		if err := s.meetingRepo.Update(ctx, id, patch, now); err != nil {
			return fmt.Errorf("error updating meeting: %w", err)
		}
		return nil
	}

	if *patch.MaxParticipants < 1 || *patch.MaxParticipants > MaxMeetingParticipants {
		return errCapacityRange
	}
	prev, err := s.registrationRepo.GetSlot(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrMeetingNotFound) {
		return fmt.Errorf("error reading meeting slot: %w", err)
	}
	// The slot refuses to drop below the registered count
	if err := s.registrationRepo.UpsertSlot(ctx, id, *patch.MaxParticipants); err != nil {
		return fmt.Errorf("error resizing meeting: %w", err)
	}
	if err := s.meetingRepo.Update(ctx, id, patch, now); err != nil {
		if prev != nil {
			if undoErr := s.registrationRepo.UpsertSlot(ctx, id, prev.MaxParticipants); undoErr != nil {
				s.logger.Error().Err(undoErr).Str("meetingID", id).Msg("Failed to restore meeting slot after update error")
			}
		}
		return fmt.Errorf("error updating meeting: %w", err)
	}
	return nil
}

func (s *meetingServiceImpl) Delete(ctx context.Context, caller *models.Profile, id string) error {
	if _, err := s.loadForChange(ctx, caller, id, "delete meetings"); err != nil {
		return err
	}
	if err := s.meetingRepo.Archive(ctx, id, s.now()); err != nil {
		return fmt.Errorf("error deleting meeting: %w", err)
	}
	s.logger.Info().Str("meetingID", id).Str("by", caller.ID).Msg("Meeting archived")
	return nil
}

func (s *meetingServiceImpl) Register(ctx context.Context, caller *models.Profile, id string) (*dto.RegistrationResponse, error) {
	if err := auth.RequireApproved(caller, "register for meetings"); err != nil {
		return nil, err
	}

	m, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !m.RegistrationOpen(now) {
		return nil, apperrors.ErrRegistrationClosed
	}

	reg := &models.MeetingRegistration{
		ID:           uuid.NewString(),
		MeetingID:    m.ID,
		UserID:       caller.ID,
		RegisteredAt: now,
		UserName:     caller.FullName,
		UserEmail:    caller.Email,
	}
	if err := s.registrationRepo.Register(ctx, reg); err != nil {
		return nil, fmt.Errorf("error registering for meeting: %w", err)
	}

	spots := 0
	if slot, err := s.registrationRepo.GetSlot(ctx, m.ID); err == nil {
		spots = slot.MaxParticipants - slot.RegisteredCount
	} else {
		s.logger.Warn().Err(err).Str("meetingID", m.ID).Msg("Could not read meeting slot after registration")
	}

	if m.HostID != caller.ID {
		s.notifications.Notify(ctx, []string{m.HostID}, models.NotificationMeetingRegistration,
			"New meeting registration",
			fmt.Sprintf("%s registered for %q", caller.FullName, m.Title))
	}

	return &dto.RegistrationResponse{Success: true, Registration: reg, SpotsLeft: spots}, nil
}

func (s *meetingServiceImpl) Cancel(ctx context.Context, caller *models.Profile, id string) error {
	if caller == nil {
		return apperrors.NewUnauthenticatedError("You must be logged in to cancel a registration")
	}

	m, err := s.meetingRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting meeting: %w", err)
	}
	if !s.now().Before(m.MeetingDate) {
		return &apperrors.CustomError{
			Err:     apperrors.ErrRegistrationClosed,
			Message: "Registrations cannot be cancelled once the meeting has started",
			Code:    apperrors.ErrRegistrationClosed.Code,
		}
	}

	if err := s.registrationRepo.Cancel(ctx, m.ID, caller.ID); err != nil {
		return fmt.Errorf("error cancelling registration: %w", err)
	}
	return nil
}

func (s *meetingServiceImpl) ListRegistrations(ctx context.Context, caller *models.Profile, id string) ([]*models.MeetingRegistration, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthenticatedError("You must be logged in to view registrations")
	}
	m, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrAdmin(caller, m.HostID, "view registrations for meetings"); err != nil {
		return nil, err
	}

	regs, err := s.registrationRepo.ListByMeeting(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing registrations: %w", err)
	}
	return regs, nil
}

func (s *meetingServiceImpl) MyMeetings(ctx context.Context, caller *models.Profile) ([]*dto.MeetingResponse, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthenticatedError("You must be logged in to view your meetings")
	}

	ids, err := s.registrationRepo.MeetingIDsForUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading registrations: %w", err)
	}
	if len(ids) == 0 {
		return []*dto.MeetingResponse{}, nil
	}
	meetings, err := s.meetingRepo.List(ctx, models.MeetingFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("error listing meetings: %w", err)
	}
	return s.enrich(ctx, caller, meetings, s.now())
}
