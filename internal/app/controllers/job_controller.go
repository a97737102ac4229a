package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/services"
	"github.com/svce/alumniconnect/internal/middleware"
)

// JobController handles the job board
type JobController struct {
	jobService services.JobService
}

// NewJobController creates a new JobController
func NewJobController(jobService services.JobService) *JobController {
	return &JobController{
		jobService: jobService,
	}
}

// ListJobs lists active jobs
// @Summary List jobs
// @Description Lists active jobs, newest first
// @Tags jobs
// @Produce json
// @Param job_type query string false "full-time, part-time, internship or contract"
// @Param experience_level query string false "entry, mid, senior or executive"
// @Param posted_by query string false "Poster profile ID"
// @Param q query string false "Search title, company or location"
// @Success 200 {array} dto.JobResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	var query dto.JobListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	jobs, err := c.jobService.List(ctx.Request.Context(), middleware.CurrentProfile(ctx), query)
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch jobs")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewJobResponses(jobs))
}

// GetJob returns one job
// @Summary Get job by ID
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /jobs/{id} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	job, err := c.jobService.Get(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch job")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewJobResponse(job))
}

// CreateJob posts a job
// @Summary Post a job
// @Description Approved alumni only
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Job posting"
// @Success 201 {object} dto.JobCreatedResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid job data"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 403 {object} dto.ErrorResponse "Not an approved alumnus"
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs [post]
func (c *JobController) CreateJob(ctx *gin.Context) {
	var req dto.CreateJobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	job, err := c.jobService.Create(ctx.Request.Context(), middleware.CurrentProfile(ctx), &req)
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to create job")
		return
	}
	ctx.JSON(http.StatusCreated, dto.JobCreatedResponse{
		Success: true,
		ID:      job.ID,
		Job:     dto.NewJobResponse(job),
	})
}

// UpdateJob edits a job
// @Summary Update a job
// @Description Poster or admin only
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param request body dto.UpdateJobRequest true "Fields to change"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /jobs/{id} [put]
func (c *JobController) UpdateJob(ctx *gin.Context) {
	var req dto.UpdateJobRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.jobService.Update(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id"), req.ToPatch()); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to update job")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}

// DeleteJob archives a job
// @Summary Delete a job
// @Description Archives the job. Poster or admin only.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /jobs/{id} [delete]
func (c *JobController) DeleteJob(ctx *gin.Context) {
	if err := c.jobService.Delete(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id")); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to delete job")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}
