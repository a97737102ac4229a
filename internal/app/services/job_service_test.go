package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
)

func jobRequest() *dto.CreateJobRequest {
	return &dto.CreateJobRequest{
		Title:           "Backend Engineer",
		Company:         "Zoho",
		Location:        "Chennai",
		JobType:         models.JobTypeFullTime,
		ExperienceLevel: models.ExperienceMid,
		Description:     "Build services",
		Requirements:    "Go, SQL",
		ApplicationURL:  ptr("https://careers.zoho.com/1"),
	}
}

func TestJobCreate_Gate(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name   string
		caller *models.Profile
		want   error
	}{
		{"anonymous", nil, apperrors.ErrNotAuthenticated},
		{"student", f.member(t, "sam", models.RoleStudent, true), apperrors.ErrWrongRole},
		{"admin", f.member(t, "root", models.RoleAdmin, true), apperrors.ErrWrongRole},
		{"pending alumnus", f.member(t, "pat", models.RoleAlumni, false), apperrors.ErrNotApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.jobs.Create(f.ctx, tt.caller, jobRequest())
			assert.ErrorIs(t, err, tt.want)
		})
	}

	err := func() error { _, err := f.jobs.Create(f.ctx, tests[1].caller, jobRequest()); return err }()
	msg, _ := apperrors.UserMessage(err)
	assert.Equal(t, "Only alumni can post jobs. Your current role is: student", msg)

	n, err := f.repos.JobRepository.Count(f.ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobCreate_ListedAndAdminsNotified(t *testing.T) {
	f := newFixture(t, false)
	admin := f.member(t, "root", models.RoleAdmin, true)
	alum := f.member(t, "arun", models.RoleAlumni, true)

	job, err := f.jobs.Create(f.ctx, alum, jobRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, alum.ID, job.PostedBy)
	assert.True(t, job.IsApproved)
	assert.Equal(t, testNow, job.CreatedAt)

	jobs, err := f.jobs.List(f.ctx, nil, dto.JobListQuery{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)

	assert.Equal(t, int64(1), f.unread(t, admin))
	assert.Zero(t, f.unread(t, alum))
}

func TestJobCreate_Validation(t *testing.T) {
	f := newFixture(t, false)
	alum := f.member(t, "arun", models.RoleAlumni, true)

	tests := []struct {
		name   string
		mutate func(r *dto.CreateJobRequest)
		want   string
	}{
		{"missing fields", func(r *dto.CreateJobRequest) { r.Company, r.Requirements = " ", "" }, "Please fill in all required fields: company, requirements"},
		{"bad job type", func(r *dto.CreateJobRequest) { r.JobType = "gig" }, "Invalid job type. Must be one of: full-time, part-time, internship, contract"},
		{"bad level", func(r *dto.CreateJobRequest) { r.ExperienceLevel = "junior" }, "Invalid experience level. Must be one of: entry, mid, senior, executive"},
		{"bad url", func(r *dto.CreateJobRequest) { r.ApplicationURL = ptr("mailto:hr@zoho.com") }, "Application URL must be a valid http(s) URL"},
		{"bad contact", func(r *dto.CreateJobRequest) { r.ContactEmail = ptr("hr-at-zoho") }, "Contact email must be a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jobRequest()
			tt.mutate(req)
			_, err := f.jobs.Create(f.ctx, alum, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
			msg, _ := apperrors.UserMessage(err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestJobUpdateAndDelete(t *testing.T) {
	f := newFixture(t, false)
	owner := f.member(t, "arun", models.RoleAlumni, true)
	other := f.member(t, "bala", models.RoleAlumni, true)
	admin := f.member(t, "root", models.RoleAdmin, true)

	job, err := f.jobs.Create(f.ctx, owner, jobRequest())
	require.NoError(t, err)

	t.Run("another alumnus cannot edit", func(t *testing.T) {
		err := f.jobs.Update(f.ctx, other, job.ID, models.JobPatch{Title: ptr("Hijacked")})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		stored, _ := f.repos.JobRepository.GetByID(f.ctx, job.ID)
		assert.Equal(t, "Backend Engineer", stored.Title)
	})

	t.Run("empty required field is rejected", func(t *testing.T) {
		err := f.jobs.Update(f.ctx, owner, job.ID, models.JobPatch{Location: ptr("")})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("owner edits", func(t *testing.T) {
		f.clock.Advance(minute)
		require.NoError(t, f.jobs.Update(f.ctx, owner, job.ID, models.JobPatch{Title: ptr("Staff Engineer"), SalaryRange: ptr("30 LPA")}))
		stored, err := f.jobs.Get(f.ctx, nil, job.ID)
		require.NoError(t, err)
		assert.Equal(t, "Staff Engineer", stored.Title)
		require.NotNil(t, stored.SalaryRange)
		assert.Equal(t, testNow.Add(minute), stored.UpdatedAt)
	})

	t.Run("admin archives", func(t *testing.T) {
		require.NoError(t, f.jobs.Delete(f.ctx, admin, job.ID))

		jobs, err := f.jobs.List(f.ctx, owner, dto.JobListQuery{})
		require.NoError(t, err)
		assert.Empty(t, jobs)

		_, err = f.jobs.Get(f.ctx, owner, job.ID)
		assert.ErrorIs(t, err, apperrors.ErrJobNotFound)

		stored, err := f.repos.JobRepository.GetByID(f.ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusArchived, stored.Status)
	})

	t.Run("archived job cannot be edited", func(t *testing.T) {
		err := f.jobs.Update(f.ctx, owner, job.ID, models.JobPatch{Title: ptr("Again")})
		assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.ErrorIs(t, f.jobs.Update(f.ctx, owner, "000000000000000000000000", models.JobPatch{Title: ptr("x")}), apperrors.ErrResourceNotFound)
		assert.ErrorIs(t, f.jobs.Delete(f.ctx, owner, "not-an-id"), apperrors.ErrResourceNotFound)
	})
}

func TestJobList_Filters(t *testing.T) {
	f := newFixture(t, false)
	alum := f.member(t, "arun", models.RoleAlumni, true)

	first := jobRequest()
	second := jobRequest()
	second.Title, second.Company, second.JobType = "Data Intern", "Freshworks", models.JobTypeInternship

	_, err := f.jobs.Create(f.ctx, alum, first)
	require.NoError(t, err)
	f.clock.Advance(minute)
	_, err = f.jobs.Create(f.ctx, alum, second)
	require.NoError(t, err)

	all, err := f.jobs.List(f.ctx, nil, dto.JobListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Data Intern", all[0].Title, "newest first")

	interns, err := f.jobs.List(f.ctx, nil, dto.JobListQuery{JobType: models.JobTypeInternship})
	require.NoError(t, err)
	require.Len(t, interns, 1)

	search, err := f.jobs.List(f.ctx, nil, dto.JobListQuery{Query: "zoho"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Backend Engineer", search[0].Title)
}

func TestJobs_GatedMode(t *testing.T) {
	f := newFixture(t, true)
	admin := f.member(t, "root", models.RoleAdmin, true)
	poster := f.member(t, "arun", models.RoleAlumni, true)
	reader := f.member(t, "bala", models.RoleStudent, true)

	job, err := f.jobs.Create(f.ctx, poster, jobRequest())
	require.NoError(t, err)
	assert.False(t, job.IsApproved)

	listed, err := f.jobs.List(f.ctx, reader, dto.JobListQuery{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = f.jobs.Get(f.ctx, reader, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
	_, err = f.jobs.Get(f.ctx, poster, job.ID)
	assert.NoError(t, err)
	_, err = f.jobs.Get(f.ctx, admin, job.ID)
	assert.NoError(t, err)

	pending, err := f.admin.PendingJobs(f.ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, f.admin.ApproveJob(f.ctx, admin, job.ID))
	listed, err = f.jobs.List(f.ctx, reader, dto.JobListQuery{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	page, err := f.notifications.List(f.ctx, poster, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.NotificationJobApproved, page.Items[0].Type)
}
