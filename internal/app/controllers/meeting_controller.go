package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/services"
	"github.com/svce/alumniconnect/internal/middleware"
)

// MeetingController handles meetings and their registrations
type MeetingController struct {
	meetingService services.MeetingService
}

// NewMeetingController creates a new MeetingController
func NewMeetingController(meetingService services.MeetingService) *MeetingController {
	return &MeetingController{
		meetingService: meetingService,
	}
}

// ListMeetings lists active meetings
// @Summary List meetings
// @Description Lists active meetings by date with registration counts and time status
// @Tags meetings
// @Produce json
// @Param status query string false "upcoming, past, completed, starting_soon or imminent"
// @Param host_id query string false "Host profile ID"
// @Success 200 {array} dto.MeetingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /meetings [get]
func (c *MeetingController) ListMeetings(ctx *gin.Context) {
	var query dto.MeetingListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	meetings, err := c.meetingService.List(ctx.Request.Context(), middleware.CurrentProfile(ctx), query)
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch meetings")
		return
	}
	ctx.JSON(http.StatusOK, meetings)
}

// MyMeetings lists the meetings the caller registered for
// @Summary My meetings
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.MeetingResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /meetings/mine [get]
func (c *MeetingController) MyMeetings(ctx *gin.Context) {
	meetings, err := c.meetingService.MyMeetings(ctx.Request.Context(), middleware.CurrentProfile(ctx))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch meetings")
		return
	}
	ctx.JSON(http.StatusOK, meetings)
}

// GetMeeting returns one meeting
// @Summary Get meeting by ID
// @Tags meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /meetings/{id} [get]
func (c *MeetingController) GetMeeting(ctx *gin.Context) {
	meeting, err := c.meetingService.Get(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch meeting")
		return
	}
	ctx.JSON(http.StatusOK, meeting)
}

// CreateMeeting schedules a meeting
// @Summary Schedule a meeting
// @Description Approved alumni only. Join details are generated.
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMeetingRequest true "Meeting"
// @Success 201 {object} dto.MeetingCreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /meetings [post]
func (c *MeetingController) CreateMeeting(ctx *gin.Context) {
	var req dto.CreateMeetingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	meeting, err := c.meetingService.Create(ctx.Request.Context(), middleware.CurrentProfile(ctx), &req)
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to create meeting")
		return
	}
	ctx.JSON(http.StatusCreated, dto.MeetingCreatedResponse{
		Success: true,
		ID:      meeting.ID,
		Meeting: meeting,
	})
}

// UpdateMeeting edits a meeting
// @Summary Update a meeting
// @Description Host or admin only
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Param request body dto.UpdateMeetingRequest true "Fields to change"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /meetings/{id} [put]
func (c *MeetingController) UpdateMeeting(ctx *gin.Context) {
	var req dto.UpdateMeetingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.meetingService.Update(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id"), req.ToPatch()); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to update meeting")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}

// DeleteMeeting archives a meeting
// @Summary Delete a meeting
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /meetings/{id} [delete]
func (c *MeetingController) DeleteMeeting(ctx *gin.Context) {
	if err := c.meetingService.Delete(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id")); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to delete meeting")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}

// Register signs the caller up for a meeting
// @Summary Register for a meeting
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 201 {object} dto.RegistrationResponse
// @Failure 403 {object} dto.ErrorResponse "Profile not approved"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Full, closed or already registered"
// @Router /meetings/{id}/register [post]
func (c *MeetingController) Register(ctx *gin.Context) {
	resp, err := c.meetingService.Register(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to register for meeting")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// CancelRegistration withdraws the caller from a meeting
// @Summary Cancel a registration
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Meeting already started"
// @Router /meetings/{id}/register [delete]
func (c *MeetingController) CancelRegistration(ctx *gin.Context) {
	if err := c.meetingService.Cancel(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id")); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to cancel registration")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}

// ListRegistrations lists who registered for a meeting
// @Summary Meeting registrations
// @Description Host or admin only
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 200 {array} models.MeetingRegistration
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /meetings/{id}/registrations [get]
func (c *MeetingController) ListRegistrations(ctx *gin.Context) {
	regs, err := c.meetingService.ListRegistrations(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch registrations")
		return
	}
	ctx.JSON(http.StatusOK, regs)
}
