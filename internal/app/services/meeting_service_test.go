package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
)

func meetingRequest(at time.Time, capacity int) *dto.CreateMeetingRequest {
	return &dto.CreateMeetingRequest{
		Title:           "Careers in Data Engineering",
		Description:     ptr("Q&A with alumni"),
		MeetingDate:     &at,
		MaxParticipants: &capacity,
	}
}

func TestMeetingCreate(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	member := f.member(t, "bala", models.RoleStudent, true)
	pending := f.member(t, "chitra", models.RoleStudent, false)

	req := meetingRequest(testNow.Add(48*time.Hour), 10)
	req.MaxParticipants = nil
	m, err := f.meetings.Create(f.ctx, host, req)
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, host.ID, m.HostID)
	assert.Equal(t, 60, m.DurationMinutes)
	assert.Equal(t, 50, m.MaxParticipants)
	assert.Equal(t, "https://meet.example.com/MEETA", m.MeetingURL)
	assert.Equal(t, "MEETA", m.ExternalID)
	assert.Equal(t, 50, m.SpotsLeft)
	assert.Equal(t, models.TimeStatusUpcoming, m.TimeStatus)

	slot, err := f.repos.RegistrationRepository.GetSlot(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, slot.MaxParticipants)

	assert.Equal(t, int64(1), f.unread(t, member), "approved members hear about new meetings")
	assert.Zero(t, f.unread(t, pending))
	assert.Zero(t, f.unread(t, host))
}

func TestMeetingCreate_Rejections(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	student := f.member(t, "bala", models.RoleStudent, true)

	tests := []struct {
		name   string
		caller *models.Profile
		req    *dto.CreateMeetingRequest
		want   error
	}{
		{"student", student, meetingRequest(testNow.Add(time.Hour), 5), apperrors.ErrWrongRole},
		{"date now", host, meetingRequest(testNow, 5), apperrors.ErrValidationFailed},
		{"date in past", host, meetingRequest(testNow.Add(-time.Minute), 5), apperrors.ErrValidationFailed},
		{"zero capacity", host, meetingRequest(testNow.Add(time.Hour), 0), apperrors.ErrValidationFailed},
		{"no date", host, &dto.CreateMeetingRequest{Title: "x"}, apperrors.ErrValidationFailed},
		{"capacity too large", host, meetingRequest(testNow.Add(time.Hour), MaxMeetingParticipants+1), apperrors.ErrValidationFailed},
		{"duration too long", host, func() *dto.CreateMeetingRequest {
			r := meetingRequest(testNow.Add(time.Hour), 5)
			r.DurationMinutes = ptr(9223372036854)
			return r
		}(), apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.meetings.Create(f.ctx, tt.caller, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	n, err := f.repos.MeetingRepository.Count(f.ctx, models.MeetingFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(time.Nanosecond), 5))
	assert.NoError(t, err, "any instant after now is accepted")
}

func TestMeetingRegistration_Capacity(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	m, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(72*time.Hour), 2))
	require.NoError(t, err)

	a := f.member(t, "bala", models.RoleStudent, true)
	b := f.member(t, "chitra", models.RoleAlumni, true)
	c := f.member(t, "deepa", models.RoleStudent, true)

	resp, err := f.meetings.Register(f.ctx, a, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.SpotsLeft)

	_, err = f.meetings.Register(f.ctx, a, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	resp, err = f.meetings.Register(f.ctx, b, m.ID)
	require.NoError(t, err)
	assert.Zero(t, resp.SpotsLeft)

	_, err = f.meetings.Register(f.ctx, c, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrMeetingFull)

	got, err := f.meetings.Get(f.ctx, a, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RegistrationCount)
	assert.True(t, got.IsRegistered)

	t.Run("cancel frees a seat", func(t *testing.T) {
		require.NoError(t, f.meetings.Cancel(f.ctx, a, m.ID))
		_, err := f.meetings.Register(f.ctx, c, m.ID)
		require.NoError(t, err)

		got, err := f.meetings.Get(f.ctx, a, m.ID)
		require.NoError(t, err)
		assert.False(t, got.IsRegistered)
		assert.Equal(t, 2, got.RegistrationCount)

		assert.ErrorIs(t, f.meetings.Cancel(f.ctx, a, m.ID), apperrors.ErrRegistrationNotFound)
	})

	t.Run("host is notified of each registration", func(t *testing.T) {
		page, err := f.notifications.List(f.ctx, host, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.UnreadCount)
		for _, n := range page.Items {
			assert.Equal(t, models.NotificationMeetingRegistration, n.Type)
		}
	})
}

func TestMeetingRegistration_Concurrent(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	m, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(72*time.Hour), 3))
	require.NoError(t, err)

	const n = 20
	members := make([]*models.Profile, n)
	for i := range members {
		members[i] = f.member(t, fmt.Sprintf("member%02d", i), models.RoleStudent, true)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range members {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.meetings.Register(f.ctx, members[i], m.ID)
		}(i)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperrors.Is(err, apperrors.ErrMeetingFull):
			full++
		}
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, n-3, full)

	regs, err := f.meetings.ListRegistrations(f.ctx, host, m.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 3)
}

func TestMeetingRegistration_Gates(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	m, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(2*time.Hour), 5))
	require.NoError(t, err)

	_, err = f.meetings.Register(f.ctx, nil, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)

	_, err = f.meetings.Register(f.ctx, f.member(t, "pat", models.RoleStudent, false), m.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotApproved)

	_, err = f.meetings.Register(f.ctx, f.member(t, "root", models.RoleAdmin, true), m.ID)
	assert.NoError(t, err, "admins may attend")

	_, err = f.meetings.Register(f.ctx, host, m.ID)
	assert.NoError(t, err, "hosts may register for their own meeting")
	assert.Equal(t, int64(1), f.unread(t, host), "only the admin registration notifies the host")

	late := f.member(t, "bala", models.RoleStudent, true)
	f.clock.Advance(2 * time.Hour)
	_, err = f.meetings.Register(f.ctx, late, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrRegistrationClosed)

	err = f.meetings.Cancel(f.ctx, host, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrRegistrationClosed)
	msg, _ := apperrors.UserMessage(err)
	assert.Equal(t, "Registrations cannot be cancelled once the meeting has started", msg)

	_, err = f.meetings.Register(f.ctx, late, "665f1c2e9b1d4c3a2f0e1d2c")
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
}

func TestMeetingList_StatusFilters(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)

	soon, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(30*time.Minute), 5))
	require.NoError(t, err)
	today, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(5*time.Hour), 5))
	require.NoError(t, err)
	later, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(10*24*time.Hour), 5))
	require.NoError(t, err)

	// Let the first one start
	f.clock.Advance(time.Hour)

	ids := func(ms []*dto.MeetingResponse) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}

	tests := []struct {
		status string
		want   []string
	}{
		{"", []string{soon.ID, today.ID, later.ID}},
		{"upcoming", []string{today.ID, later.ID}},
		{"UPCOMING", []string{today.ID, later.ID}},
		{"past", []string{soon.ID}},
		{"completed", []string{soon.ID}},
		{"imminent", []string{today.ID}},
		{"starting_soon", []string{}},
	}
	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			got, err := f.meetings.List(f.ctx, nil, dto.MeetingListQuery{Status: tt.status})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	_, err = f.meetings.List(f.ctx, nil, dto.MeetingListQuery{Status: "tomorrow"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	all, err := f.meetings.List(f.ctx, nil, dto.MeetingListQuery{})
	require.NoError(t, err)
	assert.Equal(t, models.TimeStatusCompleted, all[0].TimeStatus)
	assert.True(t, all[0].IsLive, "started 30 minutes ago with a 60 minute duration")
	assert.Equal(t, models.TimeStatusImminent, all[1].TimeStatus)
	assert.Equal(t, models.TimeStatusUpcoming, all[2].TimeStatus)
}

func TestMeetingUpdateAndDelete(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	other := f.member(t, "bala", models.RoleAlumni, true)
	m, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(24*time.Hour), 3))
	require.NoError(t, err)

	for _, name := range []string{"s1", "s2"} {
		_, err := f.meetings.Register(f.ctx, f.member(t, name, models.RoleStudent, true), m.ID)
		require.NoError(t, err)
	}

	assert.ErrorIs(t, f.meetings.Update(f.ctx, other, m.ID, models.MeetingPatch{Title: ptr("Mine now")}), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, f.meetings.Update(f.ctx, host, m.ID, models.MeetingPatch{MeetingDate: ptr(testNow.Add(-time.Hour))}), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, f.meetings.Update(f.ctx, host, m.ID, models.MeetingPatch{MaxParticipants: ptr(1)}), apperrors.ErrValidationFailed,
		"capacity cannot drop below the registrations")

	require.NoError(t, f.meetings.Update(f.ctx, host, m.ID, models.MeetingPatch{Title: ptr("Data Careers"), MaxParticipants: ptr(2)}))
	got, err := f.meetings.Get(f.ctx, host, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Data Careers", got.Title)
	assert.Equal(t, 2, got.MaxParticipants)
	assert.Zero(t, got.SpotsLeft)

	assert.ErrorIs(t, f.meetings.Delete(f.ctx, other, m.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, f.meetings.Delete(f.ctx, host, m.ID))

	_, err = f.meetings.Get(f.ctx, host, m.ID)
	assert.ErrorIs(t, err, apperrors.ErrMeetingNotFound)
	listed, err := f.meetings.List(f.ctx, host, dto.MeetingListQuery{})
	require.NoError(t, err)
	assert.Empty(t, listed)
	assert.ErrorIs(t, f.meetings.Update(f.ctx, host, m.ID, models.MeetingPatch{Title: ptr("Back")}), apperrors.ErrMeetingNotFound)
}

func TestMeetingUpdate_Bounds(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	m, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(24*time.Hour), 3))
	require.NoError(t, err)

	assert.ErrorIs(t, f.meetings.Update(f.ctx, host, m.ID, models.MeetingPatch{DurationMinutes: ptr(MaxMeetingDurationMinutes + 1)}), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, f.meetings.Update(f.ctx, host, m.ID, models.MeetingPatch{MaxParticipants: ptr(MaxMeetingParticipants + 1)}), apperrors.ErrValidationFailed)
	require.NoError(t, f.meetings.Update(f.ctx, host, m.ID, models.MeetingPatch{DurationMinutes: ptr(MaxMeetingDurationMinutes)}))
}

type failingMeetingUpdates struct {
	repositories.MeetingRepository
}

func (failingMeetingUpdates) Update(context.Context, string, models.MeetingPatch, time.Time) error {
	return errors.New("write conflict")
}

func TestMeetingUpdate_RestoresSlotOnFailure(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	m, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(24*time.Hour), 3))
	require.NoError(t, err)

	svc := NewMeetingService(failingMeetingUpdates{f.repos.MeetingRepository}, f.repos.RegistrationRepository,
		f.notifications, &stubGenerator{}, f.opts, zerolog.Nop())
	err = svc.Update(f.ctx, host, m.ID, models.MeetingPatch{MaxParticipants: ptr(10)})
	require.Error(t, err)

	slot, err := f.repos.RegistrationRepository.GetSlot(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, slot.MaxParticipants)

	got, err := f.meetings.Get(f.ctx, host, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.MaxParticipants)
}

func TestMeetingAccessVisibility(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	attendee := f.member(t, "bala", models.RoleStudent, true)
	onlooker := f.member(t, "chitra", models.RoleStudent, true)
	admin := f.member(t, "dean", models.RoleAdmin, true)
	m, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(24*time.Hour), 3))
	require.NoError(t, err)
	_, err = f.meetings.Register(f.ctx, attendee, m.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		caller *models.Profile
		shown  bool
	}{
		{"anonymous", nil, false},
		{"unregistered", onlooker, false},
		{"registered", attendee, true},
		{"host", host, true},
		{"admin", admin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.meetings.Get(f.ctx, tt.caller, m.ID)
			require.NoError(t, err)
			if tt.shown {
				assert.Equal(t, "https://meet.example.com/MEETA", got.MeetingURL)
				assert.Equal(t, "MEETA", got.ExternalID)
				assert.Equal(t, "pw1234", got.Password)
			} else {
				assert.Empty(t, got.MeetingURL)
				assert.Empty(t, got.ExternalID)
				assert.Empty(t, got.Password)
			}
		})
	}

	stored, err := f.repos.MeetingRepository.GetByID(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "pw1234", stored.Password, "hiding details never touches the stored meeting")
}

func TestMyMeetings(t *testing.T) {
	f := newFixture(t, false)
	host := f.member(t, "arun", models.RoleAlumni, true)
	me := f.member(t, "bala", models.RoleStudent, true)

	mine, err := f.meetings.MyMeetings(f.ctx, me)
	require.NoError(t, err)
	assert.Empty(t, mine)

	a, err := f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(48*time.Hour), 5))
	require.NoError(t, err)
	_, err = f.meetings.Create(f.ctx, host, meetingRequest(testNow.Add(96*time.Hour), 5))
	require.NoError(t, err)

	_, err = f.meetings.Register(f.ctx, me, a.ID)
	require.NoError(t, err)

	mine, err = f.meetings.MyMeetings(f.ctx, me)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)
	assert.True(t, mine[0].IsRegistered)

	_, err = f.meetings.ListRegistrations(f.ctx, me, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrWrongRole)
}
