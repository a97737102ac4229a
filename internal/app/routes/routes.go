package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/controllers"
	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Job          *controllers.JobController
	Meeting      *controllers.MeetingController
	Notification *controllers.NotificationController
	Admin        *controllers.AdminController
	Health       *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", ctrl.Health.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Browsable without an account; the caller is resolved when a token is sent ---
	public := v1.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/jobs", ctrl.Job.ListJobs)
		public.GET("/jobs/:id", ctrl.Job.GetJob)
		public.GET("/meetings", ctrl.Meeting.ListMeetings)
		public.GET("/meetings/:id", ctrl.Meeting.GetMeeting)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/profile", ctrl.Profile.GetProfile)
		authenticated.PUT("/profile", ctrl.Profile.UpdateProfile)
		authenticated.GET("/network", ctrl.Profile.Network)
		authenticated.GET("/dashboard", ctrl.Profile.Dashboard)

		// Role and approval checks for jobs and meetings live in the services,
		// which report wrong role and pending approval separately
		jobs := authenticated.Group("/jobs")
		{
			jobs.POST("", ctrl.Job.CreateJob)
			jobs.PUT("/:id", ctrl.Job.UpdateJob)
			jobs.DELETE("/:id", ctrl.Job.DeleteJob)
		}

		meetings := authenticated.Group("/meetings")
		{
			meetings.GET("/mine", ctrl.Meeting.MyMeetings)
			meetings.POST("", ctrl.Meeting.CreateMeeting)
			meetings.PUT("/:id", ctrl.Meeting.UpdateMeeting)
			meetings.DELETE("/:id", ctrl.Meeting.DeleteMeeting)
			meetings.POST("/:id/register", ctrl.Meeting.Register)
			meetings.DELETE("/:id/register", ctrl.Meeting.CancelRegistration)
			meetings.GET("/:id/registrations", ctrl.Meeting.ListRegistrations)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", ctrl.Notification.ListNotifications)
			notifications.GET("/unread-count", ctrl.Notification.UnreadCount)
			notifications.PUT("/read-all", ctrl.Notification.MarkAllRead)
			notifications.PUT("/:id/read", ctrl.Notification.MarkRead)
		}

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/stats", ctrl.Admin.Stats)
			admin.GET("/profiles/pending", ctrl.Admin.PendingProfiles)
			admin.POST("/profiles/:id/approve", ctrl.Admin.ApproveProfile)
			admin.DELETE("/profiles/:id", ctrl.Admin.RejectProfile)
			admin.GET("/jobs/pending", ctrl.Admin.PendingJobs)
			admin.POST("/jobs/:id/approve", ctrl.Admin.ApproveJob)
			admin.POST("/jobs/:id/reject", ctrl.Admin.RejectJob)
		}
	}
}
