package models

import "time"

// NotificationType tags the workflow event that created a notification
type NotificationType string

const (
	NotificationJobPosted           NotificationType = "job_posted"
	NotificationJobApproved         NotificationType = "job_approved"
	NotificationJobRejected         NotificationType = "job_rejected"
	NotificationMeetingScheduled    NotificationType = "meeting_scheduled"
	NotificationMeetingRegistration NotificationType = "meeting_registration"
	NotificationProfileApproved     NotificationType = "profile_approved"
)

// Notification is a polled message for one user
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
