package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
	"github.com/svce/alumniconnect/internal/pkg/validation"
)

// ProfileService covers the caller's own profile and the member directory
type ProfileService interface {
	GetOwn(ctx context.Context, caller *models.Profile) (*models.Profile, error)
	UpdateOwn(ctx context.Context, caller *models.Profile, update models.ProfileUpdate) (*models.Profile, error)
	Network(ctx context.Context, caller *models.Profile, query dto.NetworkQuery, page, size int) (*dto.ProfileListResponse, error)
}

type profileServiceImpl struct {
	profileRepo repositories.ProfileRepository
	now         helpers.Clock
}

// NewProfileService creates a new profile service instance
func NewProfileService(profileRepo repositories.ProfileRepository, opts Options) ProfileService {
	return &profileServiceImpl{
		profileRepo: profileRepo,
		now:         opts.now(),
	}
}

func (s *profileServiceImpl) GetOwn(ctx context.Context, caller *models.Profile) (*models.Profile, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthenticatedError("You must be logged in to view your profile")
	}
	return caller, nil
}

func (s *profileServiceImpl) validateUpdate(u models.ProfileUpdate) error {
	if u.FullName != nil && !validation.IsValidName(*u.FullName) {
		return apperrors.NewValidationError("Please enter your full name")
	}
	if u.Department != nil && strings.TrimSpace(*u.Department) == "" {
		return apperrors.NewValidationError("Department is required")
	}
	if u.GraduationYear != nil && !validation.IsValidGraduationYear(*u.GraduationYear, s.now()) {
		return apperrors.NewValidationError("Graduation year is out of range")
	}
	if u.LinkedInURL != nil && strings.TrimSpace(*u.LinkedInURL) != "" && !validation.IsHTTPURL(*u.LinkedInURL) {
		return apperrors.NewValidationError("LinkedIn URL must be a valid http(s) URL")
	}
	if u.ProfileImageURL != nil && strings.TrimSpace(*u.ProfileImageURL) != "" && !validation.IsHTTPURL(*u.ProfileImageURL) {
		return apperrors.NewValidationError("Profile image URL must be a valid http(s) URL")
	}
	if u.Phone != nil && strings.TrimSpace(*u.Phone) != "" && !validation.IsValidPhone(*u.Phone) {
		return apperrors.NewValidationError("Please enter a valid phone number")
	}
	return nil
}

// UpdateOwn applies a self-edit. Role, email and approval are never touched.
func (s *profileServiceImpl) UpdateOwn(ctx context.Context, caller *models.Profile, update models.ProfileUpdate) (*models.Profile, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthenticatedError("You must be logged in to edit your profile")
	}
	if err := s.validateUpdate(update); err != nil {
		return nil, err
	}

	current, err := s.profileRepo.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	trimProfileUpdate(&update)
	update.Apply(current)
	current.UpdatedAt = s.now()

	if err := s.profileRepo.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return current, nil
}

func trimProfileUpdate(u *models.ProfileUpdate) {
	for _, f := range []**string{&u.FullName, &u.Department, &u.CurrentCompany, &u.CurrentPosition, &u.Phone, &u.LinkedInURL, &u.Bio, &u.ProfileImageURL} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
}

// Network lists approved members other than the caller
func (s *profileServiceImpl) Network(ctx context.Context, caller *models.Profile, query dto.NetworkQuery, page, size int) (*dto.ProfileListResponse, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthenticatedError("You must be logged in to view the network")
	}
	if query.Role != "" && !query.Role.Valid() {
		return nil, apperrors.NewValidationError("Invalid role filter")
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	approved := true
	filter := models.ProfileFilter{
		Role:      query.Role,
		Approved:  &approved,
		ExcludeID: caller.ID,
		Query:     query.Query,
		Offset:    offset,
		Limit:     limit,
	}

	total, err := s.profileRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error counting profiles: %w", err)
	}
	items, err := s.profileRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}

	return &dto.ProfileListResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}
