package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/services"
	"github.com/svce/alumniconnect/internal/middleware"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
)

// ProfileController serves the caller's profile, the network directory and the dashboard
type ProfileController struct {
	profileService   services.ProfileService
	dashboardService services.DashboardService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService, dashboardService services.DashboardService) *ProfileController {
	return &ProfileController{
		profileService:   profileService,
		dashboardService: dashboardService,
	}
}

// GetProfile returns the caller's own profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} dto.ErrorResponse
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	profile, err := c.profileService.GetOwn(ctx.Request.Context(), middleware.CurrentProfile(ctx))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to load profile")
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile edits the caller's own profile
// @Summary Update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.profileService.UpdateOwn(ctx.Request.Context(), middleware.CurrentProfile(ctx), req.ToUpdate())
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to update profile")
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// Network lists approved members
// @Summary Browse the alumni network
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param role query string false "student or alumni"
// @Param q query string false "Search name, company, position or department"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.ProfileListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /network [get]
func (c *ProfileController) Network(ctx *gin.Context) {
	var query dto.NetworkQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.profileService.Network(ctx.Request.Context(), middleware.CurrentProfile(ctx), query, page, size)
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to load network")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Dashboard returns the caller's landing summary
// @Summary Dashboard summary
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardSummary
// @Failure 401 {object} dto.ErrorResponse
// @Router /dashboard [get]
func (c *ProfileController) Dashboard(ctx *gin.Context) {
	summary, err := c.dashboardService.Summary(ctx.Request.Context(), middleware.CurrentProfile(ctx))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to load dashboard")
		return
	}
	ctx.JSON(http.StatusOK, summary)
}
