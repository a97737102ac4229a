package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
)

func TestAdminGate(t *testing.T) {
	f := newFixture(t, false)
	alum := f.member(t, "arun", models.RoleAlumni, true)

	_, err := f.admin.Stats(f.ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	_, err = f.admin.PendingProfiles(f.ctx, alum)
	assert.ErrorIs(t, err, apperrors.ErrWrongRole)
	assert.ErrorIs(t, f.admin.ApproveProfile(f.ctx, alum, alum.ID), apperrors.ErrPermissionDenied)
}

// Sign-up, approval and first job post, end to end
func TestApprovalWorkflow(t *testing.T) {
	f := newFixture(t, false)
	admin := f.member(t, "root", models.RoleAdmin, true)

	profile, err := f.auth.Register(f.ctx, validRegistration())
	require.NoError(t, err)

	_, err = f.jobs.Create(f.ctx, profile, jobRequest())
	assert.ErrorIs(t, err, apperrors.ErrNotApproved)

	pending, err := f.admin.PendingProfiles(f.ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, profile.ID, pending[0].ID)

	require.NoError(t, f.admin.ApproveProfile(f.ctx, admin, profile.ID))
	assert.ErrorIs(t, f.admin.ApproveProfile(f.ctx, admin, profile.ID), apperrors.ErrProfileAlreadyActive)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, sentMail{"approved", "priya.raman@svce.ac.in", "Priya Raman"}, f.mail.sent[0])

	page, err := f.notifications.List(f.ctx, profile, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.NotificationProfileApproved, page.Items[0].Type)

	// Callers are reloaded per request, so use the stored row
	approved, err := f.repos.ProfileRepository.GetByID(f.ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	job, err := f.jobs.Create(f.ctx, approved, jobRequest())
	require.NoError(t, err)
	assert.Equal(t, profile.ID, job.PostedBy)
}

func TestRejectProfile(t *testing.T) {
	f := newFixture(t, false)
	admin := f.member(t, "root", models.RoleAdmin, true)
	applicant := f.member(t, "pat", models.RoleStudent, false)
	member := f.member(t, "arun", models.RoleAlumni, true)

	require.NoError(t, f.admin.RejectProfile(f.ctx, admin, applicant.ID))
	_, err := f.repos.ProfileRepository.GetByID(f.ctx, applicant.ID)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "rejected", f.mail.sent[0].kind)

	err = f.admin.RejectProfile(f.ctx, admin, member.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "approved profiles are not deleted")
	_, err = f.repos.ProfileRepository.GetByID(f.ctx, member.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.admin.RejectProfile(f.ctx, admin, applicant.ID), apperrors.ErrResourceNotFound)
	assert.Len(t, f.mail.sent, 1)
}

func TestRejectJob(t *testing.T) {
	f := newFixture(t, true)
	admin := f.member(t, "root", models.RoleAdmin, true)
	poster := f.member(t, "arun", models.RoleAlumni, true)

	job, err := f.jobs.Create(f.ctx, poster, jobRequest())
	require.NoError(t, err)

	require.NoError(t, f.admin.RejectJob(f.ctx, admin, job.ID))
	pending, err := f.admin.PendingJobs(f.ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, f.admin.ApproveJob(f.ctx, admin, job.ID), apperrors.ErrJobNotFound)

	page, err := f.notifications.List(f.ctx, poster, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.NotificationJobRejected, page.Items[0].Type)
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t, true)
	admin := f.member(t, "root", models.RoleAdmin, true)
	alum := f.member(t, "arun", models.RoleAlumni, true)
	student := f.member(t, "bala", models.RoleStudent, true)
	f.member(t, "pat", models.RoleStudent, false)

	job, err := f.jobs.Create(f.ctx, alum, jobRequest())
	require.NoError(t, err)
	_, err = f.jobs.Create(f.ctx, alum, jobRequest())
	require.NoError(t, err)
	require.NoError(t, f.admin.ApproveJob(f.ctx, admin, job.ID))

	m, err := f.meetings.Create(f.ctx, alum, meetingRequest(testNow.Add(time.Hour), 5))
	require.NoError(t, err)
	_, err = f.meetings.Create(f.ctx, alum, meetingRequest(testNow.Add(3*time.Hour), 5))
	require.NoError(t, err)
	_, err = f.meetings.Register(f.ctx, student, m.ID)
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)

	stats, err := f.admin.Stats(f.ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, dto.AdminStats{
		TotalUsers:         4,
		ApprovedUsers:      3,
		PendingUsers:       1,
		TotalAlumni:        1,
		TotalStudents:      2,
		TotalJobs:          2,
		ApprovedJobs:       1,
		PendingJobs:        1,
		ActiveMeetings:     2,
		UpcomingMeetings:   1,
		TotalRegistrations: 1,
	}, *stats)
}

func TestDashboardSummary(t *testing.T) {
	f := newFixture(t, false)
	alum := f.member(t, "arun", models.RoleAlumni, true)
	f.member(t, "bala", models.RoleAlumni, true)
	f.member(t, "pat", models.RoleAlumni, false)
	student := f.member(t, "chitra", models.RoleStudent, true)

	for i := 0; i < 7; i++ {
		_, err := f.jobs.Create(f.ctx, alum, jobRequest())
		require.NoError(t, err)
		f.clock.Advance(minute)
	}
	m, err := f.meetings.Create(f.ctx, alum, meetingRequest(f.clock.Now().Add(24*time.Hour), 5))
	require.NoError(t, err)
	_, err = f.meetings.Register(f.ctx, student, m.ID)
	require.NoError(t, err)

	summary, err := f.dashboard.Summary(f.ctx, student)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalAlumni)
	assert.Equal(t, int64(7), summary.ActiveJobs)
	assert.Len(t, summary.RecentJobs, 5)
	assert.Equal(t, int64(1), summary.UpcomingMeetings)
	require.Len(t, summary.NextMeetings, 1)
	assert.True(t, summary.NextMeetings[0].IsRegistered)
	assert.Equal(t, 1, summary.MyRegistrations)
	assert.Equal(t, int64(1), summary.UnreadNotifications, "meeting_scheduled")
	assert.False(t, summary.CanPost)

	summary, err = f.dashboard.Summary(f.ctx, alum)
	require.NoError(t, err)
	assert.True(t, summary.CanPost)

	_, err = f.dashboard.Summary(f.ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestNotifications_ReadTracking(t *testing.T) {
	f := newFixture(t, false)
	me := f.member(t, "arun", models.RoleAlumni, true)
	other := f.member(t, "bala", models.RoleAlumni, true)

	for i := 0; i < 3; i++ {
		f.notifications.Notify(f.ctx, []string{me.ID}, models.NotificationJobPosted, "t", "m")
		f.clock.Advance(minute)
	}
	f.notifications.Notify(f.ctx, []string{other.ID}, models.NotificationJobPosted, "t", "m")

	page, err := f.notifications.List(f.ctx, me, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, int64(3), page.UnreadCount)

	assert.ErrorIs(t, f.notifications.MarkRead(f.ctx, other, page.Items[0].ID), apperrors.ErrNotificationNotFound)
	require.NoError(t, f.notifications.MarkRead(f.ctx, me, page.Items[0].ID))
	assert.Equal(t, int64(2), f.unread(t, me))

	n, err := f.notifications.MarkAllRead(f.ctx, me)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Zero(t, f.unread(t, me))
	assert.Equal(t, int64(1), f.unread(t, other))
}
