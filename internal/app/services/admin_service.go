package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/svce/alumniconnect/internal/app/auth"
	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/email"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
)

// AdminService runs the approval queues and the stats panel
type AdminService interface {
	Stats(ctx context.Context, caller *models.Profile) (*dto.AdminStats, error)
	PendingProfiles(ctx context.Context, caller *models.Profile) ([]*models.Profile, error)
	ApproveProfile(ctx context.Context, caller *models.Profile, id string) error
	RejectProfile(ctx context.Context, caller *models.Profile, id string) error
	PendingJobs(ctx context.Context, caller *models.Profile) ([]*models.Job, error)
	ApproveJob(ctx context.Context, caller *models.Profile, id string) error
	RejectJob(ctx context.Context, caller *models.Profile, id string) error
}

type adminServiceImpl struct {
	repos         *repositories.Repositories
	notifications NotificationService
	mailer        email.EmailService
	now           helpers.Clock
	logger        zerolog.Logger
}

// NewAdminService creates a new admin service instance
func NewAdminService(
	repos *repositories.Repositories,
	notifications NotificationService,
	mailer email.EmailService,
	opts Options,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		repos:         repos,
		notifications: notifications,
		mailer:        mailer,
		now:           opts.now(),
		logger:        logger,
	}
}

func (s *adminServiceImpl) Stats(ctx context.Context, caller *models.Profile) (*dto.AdminStats, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	approved, pending := true, false
	stats := &dto.AdminStats{}
	profileCounts := []struct {
		dst    *int64
		filter models.ProfileFilter
	}{
		{&stats.TotalUsers, models.ProfileFilter{}},
		{&stats.ApprovedUsers, models.ProfileFilter{Approved: &approved}},
		{&stats.PendingUsers, models.ProfileFilter{Approved: &pending}},
		{&stats.TotalAlumni, models.ProfileFilter{Role: models.RoleAlumni}},
		{&stats.TotalStudents, models.ProfileFilter{Role: models.RoleStudent}},
	}
	for _, c := range profileCounts {
		n, err := s.repos.ProfileRepository.Count(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("error counting profiles: %w", err)
		}
		*c.dst = n
	}

	jobCounts := []struct {
		dst    *int64
		filter models.JobFilter
	}{
		{&stats.TotalJobs, models.JobFilter{}},
		{&stats.ApprovedJobs, models.JobFilter{Approved: &approved}},
		{&stats.PendingJobs, models.JobFilter{Approved: &pending}},
	}
	for _, c := range jobCounts {
		n, err := s.repos.JobRepository.Count(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("error counting jobs: %w", err)
		}
		*c.dst = n
	}

	var err error
	if stats.ActiveMeetings, err = s.repos.MeetingRepository.Count(ctx, models.MeetingFilter{}); err != nil {
		return nil, fmt.Errorf("error counting meetings: %w", err)
	}
	if stats.UpcomingMeetings, err = s.repos.MeetingRepository.Count(ctx, models.MeetingFilter{From: s.now()}); err != nil {
		return nil, fmt.Errorf("error counting meetings: %w", err)
	}
	if stats.TotalRegistrations, err = s.repos.RegistrationRepository.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("error counting registrations: %w", err)
	}
	return stats, nil
}

func (s *adminServiceImpl) PendingProfiles(ctx context.Context, caller *models.Profile) ([]*models.Profile, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	pending := false
	profiles, err := s.repos.ProfileRepository.List(ctx, models.ProfileFilter{Approved: &pending})
	if err != nil {
		return nil, fmt.Errorf("error listing pending profiles: %w", err)
	}
	return profiles, nil
}

func (s *adminServiceImpl) ApproveProfile(ctx context.Context, caller *models.Profile, id string) error {
	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}

	profile, err := s.repos.ProfileRepository.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting profile: %w", err)
	}
	if profile.IsApproved {
		return apperrors.ErrProfileAlreadyActive
	}
	if err := s.repos.ProfileRepository.SetApproved(ctx, id, true); err != nil {
		return fmt.Errorf("error approving profile: %w", err)
	}

	s.logger.Info().Str("profileID", id).Str("adminID", caller.ID).Msg("Profile approved")
	s.notifications.Notify(ctx, []string{id}, models.NotificationProfileApproved,
		"Profile approved",
		"Your profile has been approved. You now have full access to the alumni portal.")
	if err := s.mailer.SendProfileApprovedEmail(profile.Email, profile.FullName); err != nil {
		s.logger.Error().Err(err).Str("profileID", id).Msg("Failed to send approval email")
	}
	return nil
}

// RejectProfile deletes a still-pending profile and tells the applicant
func (s *adminServiceImpl) RejectProfile(ctx context.Context, caller *models.Profile, id string) error {
	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}

	profile, err := s.repos.ProfileRepository.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting profile: %w", err)
	}
	if err := s.repos.ProfileRepository.DeletePending(ctx, id); err != nil {
		return fmt.Errorf("error rejecting profile: %w", err)
	}

	s.logger.Info().Str("profileID", id).Str("adminID", caller.ID).Msg("Profile rejected")
	if err := s.mailer.SendProfileRejectedEmail(profile.Email, profile.FullName); err != nil {
		s.logger.Error().Err(err).Str("profileID", id).Msg("Failed to send rejection email")
	}
	return nil
}

func (s *adminServiceImpl) PendingJobs(ctx context.Context, caller *models.Profile) ([]*models.Job, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}
	pending := false
	jobs, err := s.repos.JobRepository.List(ctx, models.JobFilter{Approved: &pending})
	if err != nil {
		return nil, fmt.Errorf("error listing pending jobs: %w", err)
	}
	return jobs, nil
}

func (s *adminServiceImpl) ApproveJob(ctx context.Context, caller *models.Profile, id string) error {
	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}

	job, err := s.repos.JobRepository.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting job: %w", err)
	}
	if err := s.repos.JobRepository.SetApproved(ctx, id, true, s.now()); err != nil {
		return fmt.Errorf("error approving job: %w", err)
	}

	s.notifications.Notify(ctx, []string{job.PostedBy}, models.NotificationJobApproved,
		"Job approved",
		fmt.Sprintf("Your job posting %q at %s is now live.", job.Title, job.Company))
	return nil
}

// RejectJob archives a job and tells its poster
func (s *adminServiceImpl) RejectJob(ctx context.Context, caller *models.Profile, id string) error {
	if err := auth.RequireAdmin(caller); err != nil {
		return err
	}

	job, err := s.repos.JobRepository.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting job: %w", err)
	}
	if err := s.repos.JobRepository.Archive(ctx, id, s.now()); err != nil {
		return fmt.Errorf("error rejecting job: %w", err)
	}

	s.notifications.Notify(ctx, []string{job.PostedBy}, models.NotificationJobRejected,
		"Job rejected",
		fmt.Sprintf("Your job posting %q at %s was not approved.", job.Title, job.Company))
	return nil
}
