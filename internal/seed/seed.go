package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/app/services"
	"github.com/svce/alumniconnect/internal/config"
	"github.com/svce/alumniconnect/internal/pkg/auth"
)

// Services are the workflows sample data is created through
type Services struct {
	Jobs     services.JobService
	Meetings services.MeetingService
}

// CreateDefaultData creates the admin account and, when enabled, a sample alumnus
// with one job and one meeting. Existing accounts are left alone.
func CreateDefaultData(ctx context.Context, cfg *config.Config, repos *repositories.Repositories, svc Services, lgr zerolog.Logger) error {
	if !cfg.Seed.Enabled {
		lgr.Info().Msg("Seeding disabled, skipping default data")
		return nil
	}

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	if _, err := ensureProfile(ctx, repos.ProfileRepository, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, "Portal Administrator", models.RoleAdmin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin profile")
		finalErr = errors.Join(finalErr, err)
	}

	if cfg.Seed.SampleData {
		if err := createSampleData(ctx, cfg, repos, svc, lgr); err != nil {
			lgr.Error().Err(err).Msg("Error creating sample data")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

// ensureProfile creates an approved profile unless the email is taken.
// A nil profile with a nil error means it already existed.
func ensureProfile(ctx context.Context, repo repositories.ProfileRepository, email, password, name string, role models.Role, lgr zerolog.Logger) (*models.Profile, error) {
	exists, err := repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking profile %s: %w", email, err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Profile already exists, skipping creation")
		return nil, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     name,
		Role:         role,
		IsApproved:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("error creating profile %s: %w", email, err)
	}

	lgr.Info().Str("profileID", profile.ID).Str("role", string(role)).Msg("Default profile created successfully")
	return profile, nil
}

func createSampleData(ctx context.Context, cfg *config.Config, repos *repositories.Repositories, svc Services, lgr zerolog.Logger) error {
	email := "alumni.demo@" + cfg.Portal.AllowedEmailDomain
	alumnus, err := ensureProfile(ctx, repos.ProfileRepository, email, cfg.Seed.AdminPassword, "Demo Alumnus", models.RoleAlumni, lgr)
	if err != nil || alumnus == nil {
		return err
	}
	alumnus.Department = "Computer Science and Engineering"
	alumnus.GraduationYear = 2018
	if err := repos.ProfileRepository.Update(ctx, alumnus); err != nil {
		return fmt.Errorf("error updating sample alumnus: %w", err)
	}

	job, err := svc.Jobs.Create(ctx, alumnus, &dto.CreateJobRequest{
		Title:           "Software Engineer",
		Company:         "Zoho",
		Location:        "Chennai",
		JobType:         models.JobTypeFullTime,
		ExperienceLevel: models.ExperienceEntry,
		Description:     "Build and operate backend services for a SaaS suite.",
		Requirements:    "Strong fundamentals in data structures and one backend language.",
	})
	if err != nil {
		return fmt.Errorf("error creating sample job: %w", err)
	}
	if !job.IsApproved {
		if err := repos.JobRepository.SetApproved(ctx, job.ID, true, time.Now().UTC()); err != nil {
			return fmt.Errorf("error approving sample job: %w", err)
		}
	}

	date := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	meeting, err := svc.Meetings.Create(ctx, alumnus, &dto.CreateMeetingRequest{
		Title:       "Life After SVCE: Careers in Software",
		MeetingDate: &date,
	})
	if err != nil {
		return fmt.Errorf("error creating sample meeting: %w", err)
	}

	lgr.Info().Str("jobID", job.ID).Str("meetingID", meeting.ID).Msg("Sample data created")
	return nil
}
