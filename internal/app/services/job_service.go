package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/svce/alumniconnect/internal/app/auth"
	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
	"github.com/svce/alumniconnect/internal/pkg/validation"
)

// JobService runs the job board
type JobService interface {
	List(ctx context.Context, caller *models.Profile, query dto.JobListQuery) ([]*models.Job, error)
	Get(ctx context.Context, caller *models.Profile, id string) (*models.Job, error)
	Create(ctx context.Context, caller *models.Profile, req *dto.CreateJobRequest) (*models.Job, error)
	Update(ctx context.Context, caller *models.Profile, id string, patch models.JobPatch) error
	Delete(ctx context.Context, caller *models.Profile, id string) error
}

type jobServiceImpl struct {
	jobRepo       repositories.JobRepository
	notifications NotificationService
	gated         bool
	now           helpers.Clock
	logger        zerolog.Logger
}

// NewJobService creates a new job service instance
func NewJobService(
	jobRepo repositories.JobRepository,
	notifications NotificationService,
	opts Options,
	logger zerolog.Logger,
) JobService {
	return &jobServiceImpl{
		jobRepo:       jobRepo,
		notifications: notifications,
		gated:         opts.JobsGated,
		now:           opts.now(),
		logger:        logger,
	}
}

// List returns the public board. In gated mode only approved jobs are listed.
func (s *jobServiceImpl) List(ctx context.Context, caller *models.Profile, query dto.JobListQuery) ([]*models.Job, error) {
	filter := models.JobFilter{
		JobType:         query.JobType,
		ExperienceLevel: query.ExperienceLevel,
		PostedBy:        strings.TrimSpace(query.PostedBy),
		Query:           query.Query,
	}
	if s.gated {
		approved := true
		filter.Approved = &approved
	}

	jobs, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}
	return jobs, nil
}

// Get returns an active job. A pending job in gated mode is visible only to its poster and admins.
func (s *jobServiceImpl) Get(ctx context.Context, caller *models.Profile, id string) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting job: %w", err)
	}
	if !job.IsActive() {
		return nil, apperrors.ErrJobNotFound
	}
	if s.gated && !job.IsApproved && !auth.CanAdminister(caller) && (caller == nil || caller.ID != job.PostedBy) {
		return nil, apperrors.ErrJobNotFound
	}
	return job, nil
}

// validateJob checks required fields, enums and optional contact fields
func validateJob(j *models.Job) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", j.Title},
		{"company", j.Company},
		{"location", j.Location},
		{"job_type", string(j.JobType)},
		{"experience_level", string(j.ExperienceLevel)},
		{"description", j.Description},
		{"requirements", j.Requirements},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("Please fill in all required fields: " + strings.Join(missing, ", "))
	}
	return validateJobFields(j.JobType, j.ExperienceLevel, j.ApplicationURL, j.ContactEmail)
}

func validateJobFields(jobType models.JobType, level models.ExperienceLevel, applicationURL, contactEmail *string) error {
	if jobType != "" && !jobType.Valid() {
		return apperrors.NewValidationError("Invalid job type. Must be one of: full-time, part-time, internship, contract")
	}
	if level != "" && !level.Valid() {
		return apperrors.NewValidationError("Invalid experience level. Must be one of: entry, mid, senior, executive")
	}
	if applicationURL != nil && *applicationURL != "" && !validation.IsHTTPURL(*applicationURL) {
		return apperrors.NewValidationError("Application URL must be a valid http(s) URL")
	}
	if contactEmail != nil && *contactEmail != "" && !validation.IsValidEmail(*contactEmail) {
		return apperrors.NewValidationError("Contact email must be a valid email address")
	}
	return nil
}

func (s *jobServiceImpl) Create(ctx context.Context, caller *models.Profile, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := auth.RequirePoster(caller, "post jobs"); err != nil {
		return nil, err
	}

	job := req.ToModel()
	if err := validateJob(job); err != nil {
		return nil, err
	}

	now := s.now()
	job.PostedBy = caller.ID
	job.IsApproved = !s.gated
	job.Status = models.StatusActive
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("error creating job: %w", err)
	}

	s.logger.Info().Str("jobID", job.ID).Str("postedBy", caller.ID).Bool("approved", job.IsApproved).Msg("Job posted")
	s.notifications.NotifyAdmins(ctx, models.NotificationJobPosted,
		"New job posted",
		fmt.Sprintf("%s posted %s at %s", caller.FullName, job.Title, job.Company))

	return job, nil
}

// loadForChange fetches an active job and checks that caller may modify it
func (s *jobServiceImpl) loadForChange(ctx context.Context, caller *models.Profile, id, action string) (*models.Job, error) {
	if caller == nil {
		return nil, auth.RequirePoster(nil, action)
	}
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting job: %w", err)
	}
	if !job.IsActive() {
		return nil, apperrors.ErrJobNotFound
	}
	if err := auth.RequireOwnerOrAdmin(caller, job.PostedBy, action); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobServiceImpl) Update(ctx context.Context, caller *models.Profile, id string, patch models.JobPatch) error {
	if _, err := s.loadForChange(ctx, caller, id, "edit jobs"); err != nil {
		return err
	}

	for _, f := range []struct {
		name  string
		value *string
	}{
		{"title", patch.Title},
		{"company", patch.Company},
		{"location", patch.Location},
		{"description", patch.Description},
		{"requirements", patch.Requirements},
	} {
		if f.value != nil && *f.value == "" {
			return apperrors.NewValidationError(fmt.Sprintf("%s cannot be empty", f.name))
		}
	}
	var jobType models.JobType
	if patch.JobType != nil {
		jobType = *patch.JobType
		if jobType == "" {
			return apperrors.NewValidationError("job_type cannot be empty")
		}
	}
	var level models.ExperienceLevel
	if patch.ExperienceLevel != nil {
		level = *patch.ExperienceLevel
		if level == "" {
			return apperrors.NewValidationError("experience_level cannot be empty")
		}
	}
	if err := validateJobFields(jobType, level, patch.ApplicationURL, patch.ContactEmail); err != nil {
		return err
	}

	if err := s.jobRepo.Update(ctx, id, patch, s.now()); err != nil {
		return fmt.Errorf("error updating job: %w", err)
	}
	return nil
}

func (s *jobServiceImpl) Delete(ctx context.Context, caller *models.Profile, id string) error {
	if _, err := s.loadForChange(ctx, caller, id, "delete jobs"); err != nil {
		return err
	}
	if err := s.jobRepo.Archive(ctx, id, s.now()); err != nil {
		return fmt.Errorf("error deleting job: %w", err)
	}
	s.logger.Info().Str("jobID", id).Str("by", caller.ID).Msg("Job archived")
	return nil
}
