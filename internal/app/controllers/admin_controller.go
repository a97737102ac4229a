package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/services"
	"github.com/svce/alumniconnect/internal/middleware"
)

// AdminController serves the admin panel
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// Stats returns portal counters
// @Summary Admin stats
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminStats
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.adminService.Stats(ctx.Request.Context(), middleware.CurrentProfile(ctx))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to load stats")
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// PendingProfiles lists profiles awaiting approval
// @Summary Pending profiles
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Profile
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/profiles/pending [get]
func (c *AdminController) PendingProfiles(ctx *gin.Context) {
	profiles, err := c.adminService.PendingProfiles(ctx.Request.Context(), middleware.CurrentProfile(ctx))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch pending profiles")
		return
	}
	ctx.JSON(http.StatusOK, profiles)
}

// ApproveProfile approves a pending profile
// @Summary Approve a profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already approved"
// @Router /admin/profiles/{id}/approve [post]
func (c *AdminController) ApproveProfile(ctx *gin.Context) {
	if err := c.adminService.ApproveProfile(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id")); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to approve profile")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}

// RejectProfile deletes a pending profile
// @Summary Reject a profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already approved"
// @Router /admin/profiles/{id} [delete]
func (c *AdminController) RejectProfile(ctx *gin.Context) {
	if err := c.adminService.RejectProfile(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id")); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to reject profile")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}

// PendingJobs lists jobs awaiting approval
// @Summary Pending jobs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.JobResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/jobs/pending [get]
func (c *AdminController) PendingJobs(ctx *gin.Context) {
	jobs, err := c.adminService.PendingJobs(ctx.Request.Context(), middleware.CurrentProfile(ctx))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch pending jobs")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewJobResponses(jobs))
}

// ApproveJob publishes a pending job
// @Summary Approve a job
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/jobs/{id}/approve [post]
func (c *AdminController) ApproveJob(ctx *gin.Context) {
	if err := c.adminService.ApproveJob(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id")); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to approve job")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}

// RejectJob archives a pending job
// @Summary Reject a job
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/jobs/{id}/reject [post]
func (c *AdminController) RejectJob(ctx *gin.Context) {
	if err := c.adminService.RejectJob(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id")); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to reject job")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}
