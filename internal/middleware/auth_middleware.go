package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextProfileKey = "profile"
	ContextUserIDKey  = "userID"
)

// AuthMiddleware resolves the caller's profile from a bearer token
type AuthMiddleware struct {
	jwtService  *auth.JWTService
	profileRepo repositories.ProfileRepository
	logger      zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, profileRepo repositories.ProfileRepository, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// resolve loads the profile named by the token. The profile is re-read so approval changes apply immediately.
func (m *AuthMiddleware) resolve(c *gin.Context, header string) (*models.Profile, error) {
	tokenString, err := auth.ExtractBearerToken(header)
	if err != nil {
		return nil, err
	}
	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		return nil, err
	}

	profile, err := m.profileRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			// Rejected or removed after the token was issued
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return profile, nil
}

func (m *AuthMiddleware) abortTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrorCodeExpiredToken, "Authentication failed").WithDetails("Token has expired"))
	case errors.Is(err, auth.ErrInvalidFormat):
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "Authentication failed").WithDetails("Invalid token format"))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "Authentication failed").WithDetails("Invalid token"))
	default:
		m.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Failed to load caller profile")
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Failed to authenticate").WithDetails(err.Error()))
	}
}

func setProfile(c *gin.Context, p *models.Profile) {
	c.Set(ContextProfileKey, p)
	c.Set(ContextUserIDKey, p.ID)
}

// JWTAuth rejects requests without a valid token
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required").WithDetails("Authorization header missing"))
			return
		}

		profile, err := m.resolve(c, header)
		if err != nil {
			m.abortTokenError(c, err)
			return
		}

		setProfile(c, profile)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a token is sent and lets anonymous requests through.
// A token that is sent but invalid is still rejected.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		profile, err := m.resolve(c, header)
		if err != nil {
			m.abortTokenError(c, err)
			return
		}

		setProfile(c, profile)
		c.Next()
	}
}

// RoleRequired checks the caller's role. JWTAuth must run first.
func (m *AuthMiddleware) RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentProfile(c)
		if profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required").WithDetails("User profile not found"))
			return
		}

		if profile.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrorCodeWrongRole, "Access denied").
					WithDetails("You don't have sufficient permissions for this operation"))
			return
		}

		c.Next()
	}
}

// CurrentProfile returns the caller resolved by the auth middleware, or nil for anonymous requests
func CurrentProfile(c *gin.Context) *models.Profile {
	v, ok := c.Get(ContextProfileKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Profile)
	return p
}
