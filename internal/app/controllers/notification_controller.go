package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/services"
	"github.com/svce/alumniconnect/internal/middleware"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
)

// NotificationController serves the caller's notification feed
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// ListNotifications returns one page of the caller's notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.NotificationListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.notificationService.List(ctx.Request.Context(), middleware.CurrentProfile(ctx), page, size)
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to fetch notifications")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UnreadCount returns how many notifications are unread
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UnreadCountResponse
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	n, err := c.notificationService.UnreadCount(ctx.Request.Context(), middleware.CurrentProfile(ctx))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to count notifications")
		return
	}
	ctx.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: n})
}

// MarkRead marks one notification read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	if err := c.notificationService.MarkRead(ctx.Request.Context(), middleware.CurrentProfile(ctx), ctx.Param("id")); err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to update notification")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK())
}

// MarkAllRead marks every notification of the caller read
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CountResponse
// @Router /notifications/read-all [put]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	n, err := c.notificationService.MarkAllRead(ctx.Request.Context(), middleware.CurrentProfile(ctx))
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to update notifications")
		return
	}
	ctx.JSON(http.StatusOK, dto.CountResponse{Success: true, Updated: n})
}
