package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/app/repositories/inmem"
	"github.com/svce/alumniconnect/internal/pkg/auth"
	"github.com/svce/alumniconnect/internal/pkg/meetinggen"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

const minute = time.Minute

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type stubGenerator struct {
	n int
}

func (g *stubGenerator) Generate() (meetinggen.Access, error) {
	g.n++
	id := "MEET" + string(rune('A'+g.n-1))
	return meetinggen.Access{URL: "https://meet.example.com/" + id, MeetingID: id, Password: "pw1234"}, nil
}

type sentMail struct {
	kind, to, name string
}

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) SendProfileApprovedEmail(to, name string) error {
	m.sent = append(m.sent, sentMail{"approved", to, name})
	return nil
}

func (m *recordingMailer) SendProfileRejectedEmail(to, name string) error {
	m.sent = append(m.sent, sentMail{"rejected", to, name})
	return nil
}

type fixture struct {
	ctx   context.Context
	clock *fakeClock
	repos *repositories.Repositories
	mail  *recordingMailer
	opts  Options

	auth          AuthService
	profiles      ProfileService
	jobs          JobService
	meetings      MeetingService
	notifications NotificationService
	admin         AdminService
	dashboard     DashboardService
}

func newFixture(t *testing.T, gated bool) *fixture {
	t.Helper()

	clock := &fakeClock{now: testNow}
	repos := inmem.New().Repositories()
	opts := Options{
		AllowedEmailDomain:     "svce.ac.in",
		DefaultMeetingDuration: 60,
		DefaultMaxParticipants: 50,
		JobsGated:              gated,
		PasswordCost:           bcrypt.MinCost,
		Clock:                  clock.Now,
	}
	logger := zerolog.Nop()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "alumniconnect"})
	mail := &recordingMailer{}

	notifications := NewNotificationService(repos.NotificationRepository, repos.ProfileRepository, opts, logger)
	jobs := NewJobService(repos.JobRepository, notifications, opts, logger)
	meetings := NewMeetingService(repos.MeetingRepository, repos.RegistrationRepository, notifications, &stubGenerator{}, opts, logger)

	return &fixture{
		ctx:           context.Background(),
		clock:         clock,
		repos:         repos,
		mail:          mail,
		opts:          opts,
		auth:          NewAuthService(repos.ProfileRepository, jwt, opts, logger),
		profiles:      NewProfileService(repos.ProfileRepository, opts),
		jobs:          jobs,
		meetings:      meetings,
		notifications: notifications,
		admin:         NewAdminService(repos, notifications, mail, opts, logger),
		dashboard:     NewDashboardService(repos, jobs, meetings, opts),
	}
}

// member stores a profile directly, bypassing registration
func (f *fixture) member(t *testing.T, name string, role models.Role, approved bool) *models.Profile {
	t.Helper()
	hash, err := auth.HashPasswordWithCost("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	p := &models.Profile{
		ID:             uuid.NewString(),
		Email:          name + "@svce.ac.in",
		PasswordHash:   hash,
		FullName:       name,
		Role:           role,
		IsApproved:     approved,
		Department:     "Computer Science",
		GraduationYear: 2018,
		CreatedAt:      f.clock.Now(),
		UpdatedAt:      f.clock.Now(),
	}
	require.NoError(t, f.repos.ProfileRepository.Create(f.ctx, p))
	return p
}

func (f *fixture) unread(t *testing.T, p *models.Profile) int64 {
	t.Helper()
	n, err := f.notifications.UnreadCount(f.ctx, p)
	require.NoError(t, err)
	return n
}

func ptr[T any](v T) *T {
	return &v
}
