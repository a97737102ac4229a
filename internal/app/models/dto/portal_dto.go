package dto

import "github.com/svce/alumniconnect/internal/app/models"

// NotificationListResponse is one page of notifications
type NotificationListResponse struct {
	Items       []*models.Notification `json:"items"`
	UnreadCount int64                  `json:"unread_count"`
	Pagination  PaginationInfo         `json:"pagination"`
}

// UnreadCountResponse is returned by GET /notifications/unread-count
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count" example:"2"`
}

// AdminStats summarizes the portal for the admin panel
type AdminStats struct {
	TotalUsers         int64 `json:"total_users"`
	ApprovedUsers      int64 `json:"approved_users"`
	PendingUsers       int64 `json:"pending_users"`
	TotalAlumni        int64 `json:"total_alumni"`
	TotalStudents      int64 `json:"total_students"`
	TotalJobs          int64 `json:"total_jobs"`
	ApprovedJobs       int64 `json:"approved_jobs"`
	PendingJobs        int64 `json:"pending_jobs"`
	ActiveMeetings     int64 `json:"active_meetings"`
	UpcomingMeetings   int64 `json:"upcoming_meetings"`
	TotalRegistrations int64 `json:"total_registrations"`
}

// DashboardSummary is the landing view of a signed-in member
type DashboardSummary struct {
	Profile             *models.Profile    `json:"profile"`
	TotalAlumni         int64              `json:"total_alumni"`
	ActiveJobs          int64              `json:"active_jobs"`
	UpcomingMeetings    int64              `json:"upcoming_meetings"`
	MyRegistrations     int                `json:"my_registrations"`
	UnreadNotifications int64              `json:"unread_notifications"`
	RecentJobs          []*JobResponse     `json:"recent_jobs"`
	NextMeetings        []*MeetingResponse `json:"next_meetings"`
	CanPost             bool               `json:"can_post"`
}
