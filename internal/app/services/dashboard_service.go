package services

import (
	"context"
	"fmt"

	"github.com/svce/alumniconnect/internal/app/auth"
	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
)

const dashboardPreviewSize = 5

// DashboardService builds the landing summary of a signed-in member
type DashboardService interface {
	Summary(ctx context.Context, caller *models.Profile) (*dto.DashboardSummary, error)
}

type dashboardServiceImpl struct {
	repos    *repositories.Repositories
	jobs     JobService
	meetings MeetingService
	now      helpers.Clock
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(repos *repositories.Repositories, jobs JobService, meetings MeetingService, opts Options) DashboardService {
	return &dashboardServiceImpl{
		repos:    repos,
		jobs:     jobs,
		meetings: meetings,
		now:      opts.now(),
	}
}

func (s *dashboardServiceImpl) Summary(ctx context.Context, caller *models.Profile) (*dto.DashboardSummary, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthenticatedError("You must be logged in to view the dashboard")
	}

	approved := true
	totalAlumni, err := s.repos.ProfileRepository.Count(ctx, models.ProfileFilter{Role: models.RoleAlumni, Approved: &approved})
	if err != nil {
		return nil, fmt.Errorf("error counting alumni: %w", err)
	}

	jobs, err := s.jobs.List(ctx, caller, dto.JobListQuery{})
	if err != nil {
		return nil, err
	}
	upcoming, err := s.meetings.List(ctx, caller, dto.MeetingListQuery{Status: string(models.TimeStatusUpcoming)})
	if err != nil {
		return nil, err
	}
	mine, err := s.repos.RegistrationRepository.MeetingIDsForUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading registrations: %w", err)
	}
	unread, err := s.repos.NotificationRepository.CountUnread(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error counting notifications: %w", err)
	}

	recent := jobs
	if len(recent) > dashboardPreviewSize {
		recent = recent[:dashboardPreviewSize]
	}
	next := upcoming
	if len(next) > dashboardPreviewSize {
		next = next[:dashboardPreviewSize]
	}

	return &dto.DashboardSummary{
		Profile:             caller,
		TotalAlumni:         totalAlumni,
		ActiveJobs:          int64(len(jobs)),
		UpcomingMeetings:    int64(len(upcoming)),
		MyRegistrations:     len(mine),
		UnreadNotifications: unread,
		RecentJobs:          dto.NewJobResponses(recent),
		NextMeetings:        next,
		CanPost:             auth.CanPost(caller),
	}, nil
}
