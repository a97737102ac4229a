package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/auth"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
	"github.com/svce/alumniconnect/internal/pkg/validation"
)

// AuthService handles self-registration and login
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.Profile, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authServiceImpl struct {
	profileRepo repositories.ProfileRepository
	jwtService  *auth.JWTService
	opts        Options
	now         helpers.Clock
	logger      zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	profileRepo repositories.ProfileRepository,
	jwtService *auth.JWTService,
	opts Options,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		opts:        opts,
		now:         opts.now(),
		logger:      logger,
	}
}

// validateRegistration checks the form in the order the sign-up page reports problems
func (s *authServiceImpl) validateRegistration(req *dto.RegisterRequest) error {
	email := validation.NormalizeEmail(req.Email)
	if !validation.IsValidEmail(email) {
		return apperrors.NewValidationError("Please enter a valid email address")
	}
	if !validation.HasEmailDomain(email, s.opts.AllowedEmailDomain) {
		return apperrors.NewValidationError(fmt.Sprintf("Only @%s email addresses are allowed", strings.TrimPrefix(s.opts.AllowedEmailDomain, "@")))
	}
	if req.Password != req.ConfirmPassword {
		return apperrors.NewValidationError("Passwords do not match")
	}
	if len(req.Password) < validation.PasswordMinLength {
		return apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters long", validation.PasswordMinLength))
	}
	if len(req.Password) > validation.PasswordMaxBytes {
		return apperrors.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", validation.PasswordMaxBytes))
	}
	if !req.Role.SelfAssignable() {
		return apperrors.NewValidationError("Please select a valid role (student or alumni)")
	}
	if !validation.IsValidName(req.FullName) {
		return apperrors.NewValidationError("Please enter your full name")
	}
	if strings.TrimSpace(req.Department) == "" {
		return apperrors.NewValidationError("Department is required")
	}
	if !validation.IsValidGraduationYear(req.GraduationYear, s.now()) {
		year := s.now().Year()
		return apperrors.NewValidationError(fmt.Sprintf("Graduation year must be between %d and %d",
			year-validation.GraduationYearsBack, year+validation.GraduationYearsAhead))
	}
	if req.LinkedInURL != nil && strings.TrimSpace(*req.LinkedInURL) != "" && !validation.IsHTTPURL(*req.LinkedInURL) {
		return apperrors.NewValidationError("LinkedIn URL must be a valid http(s) URL")
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" && !validation.IsValidPhone(*req.Phone) {
		return apperrors.NewValidationError("Please enter a valid phone number")
	}
	return nil
}

// Register creates a pending profile
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.Profile, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(req.Email)
	exists, err := s.profileRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	cost := s.opts.PasswordCost
	if cost == 0 {
		cost = auth.BcryptCost
	}
	hash, err := auth.HashPasswordWithCost(req.Password, cost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now()
	profile := &models.Profile{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		FullName:        strings.TrimSpace(req.FullName),
		Role:            req.Role,
		IsApproved:      false,
		Department:      strings.TrimSpace(req.Department),
		GraduationYear:  req.GraduationYear,
		CurrentCompany:  helpers.NullIfBlank(req.CurrentCompany),
		CurrentPosition: helpers.NullIfBlank(req.CurrentPosition),
		Phone:           helpers.NullIfBlank(req.Phone),
		LinkedInURL:     helpers.NullIfBlank(req.LinkedInURL),
		Bio:             helpers.NullIfBlank(req.Bio),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	s.logger.Info().Str("profileID", profile.ID).Str("role", string(profile.Role)).Msg("Profile registered, awaiting approval")
	return profile, nil
}

var errBadCredentials = apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")

// Login checks credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	if !auth.CheckPassword(profile.PasswordHash, req.Password) {
		s.logger.Warn().Str("profileID", profile.ID).Msg("Failed login attempt")
		return nil, errBadCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(profile)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Profile:     profile,
	}, nil
}
