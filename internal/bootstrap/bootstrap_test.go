package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/config"
)

const (
	adminEmail    = "admin@svce.ac.in"
	adminPassword = "Admin123!"
)

type testApp struct {
	router *gin.Engine
	deps   *Dependencies
}

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_MODE", "production")
	t.Setenv("SEED_ADMIN_EMAIL", adminEmail)
	t.Setenv("SEED_ADMIN_PASSWORD", adminPassword)

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, wrap func(*repositories.Repositories)) *testApp {
	t.Helper()
	cfg := loadTestConfig(t)

	stores, err := SetupStores(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(stores.Close)

	if wrap != nil {
		wrap(stores.Repos)
	}

	deps := BuildDependencies(cfg, stores.Repos, zerolog.Nop())
	SeedDefaultData(cfg, deps)
	return &testApp{router: SetupRouter(cfg, deps, zerolog.Nop()), deps: deps}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[dto.LoginResponse](t, w).AccessToken
}

func registration(name string, role models.Role) map[string]any {
	year := 2018
	if role == models.RoleStudent {
		year = time.Now().Year() + 2
	}
	return map[string]any{
		"email":            name + "@svce.ac.in",
		"password":         "secret1",
		"confirm_password": "secret1",
		"full_name":        name + " Test",
		"role":             role,
		"department":       "Mechanical Engineering",
		"graduation_year":  year,
	}
}

// member registers name and returns its token, approving it through the admin API when asked
func (a *testApp) member(t *testing.T, name string, role models.Role, approve bool) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/register", "", registration(name, role))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	profile := decode[dto.RegisterResponse](t, w).Profile
	require.False(t, profile.IsApproved)

	if approve {
		admin := a.login(t, adminEmail, adminPassword)
		w = a.do(t, http.MethodPost, "/admin/profiles/"+profile.ID+"/approve", admin, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	return a.login(t, profile.Email, "secret1")
}

func meetingBody(maxParticipants int) map[string]any {
	return map[string]any{
		"title":            "Breaking into product roles",
		"meeting_date":     time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339),
		"max_participants": maxParticipants,
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Checks["memory"])
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth_Degraded(t *testing.T) {
	app := newTestApp(t, func(r *repositories.Repositories) {
		r.Health["mongo"] = failingPinger{}
	})

	w := app.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode[dto.HealthResponse](t, w)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["mongo"])
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodPost, "/auth/register", "", registration("kavya", models.RoleAlumni))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[dto.RegisterResponse](t, w)
	assert.True(t, reg.Success)
	assert.Equal(t, "kavya@svce.ac.in", reg.Profile.Email)

	w = app.do(t, http.MethodPost, "/auth/register", "", registration("kavya", models.RoleAlumni))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, decode[dto.ErrorResponse](t, w).Code)

	body := registration("outsider", models.RoleAlumni)
	body["email"] = "outsider@gmail.com"
	w = app.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errResp.Code)
	assert.Equal(t, "Only @svce.ac.in email addresses are allowed", errResp.Error)

	body = registration("verbose", models.RoleAlumni)
	body["password"] = strings.Repeat("x", 80)
	body["confirm_password"] = body["password"]
	w = app.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "Password must be at most 72 bytes", decode[dto.ErrorResponse](t, w).Error)

	w = app.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "kavya@svce.ac.in", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, decode[dto.ErrorResponse](t, w).Code)

	token := app.login(t, "KAVYA@svce.ac.in", "secret1")
	w = app.do(t, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "kavya Test", decode[models.Profile](t, w).FullName)
}

func TestRegister_MissingBody(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", http.NoBody)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decode[dto.ErrorResponse](t, w).Code)
}

func TestAuthentication(t *testing.T) {
	app := newTestApp(t, nil)

	w := app.do(t, http.MethodGet, "/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decode[dto.ErrorResponse](t, w).Code)

	w = app.do(t, http.MethodGet, "/dashboard", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidToken, decode[dto.ErrorResponse](t, w).Code)

	// Browsing is open, but a bad token is still reported
	w = app.do(t, http.MethodGet, "/jobs", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodGet, "/jobs", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPermissions(t *testing.T) {
	app := newTestApp(t, nil)
	student := app.member(t, "sana", models.RoleStudent, true)
	pending := app.member(t, "ravi", models.RoleAlumni, false)

	job := map[string]any{
		"title": "Data Analyst", "company": "Freshworks", "location": "Chennai",
		"job_type": "full-time", "experience_level": "entry",
		"description": "Dashboards and SQL", "requirements": "SQL",
	}

	w := app.do(t, http.MethodPost, "/jobs", student, job)
	require.Equal(t, http.StatusForbidden, w.Code)
	errResp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorCodeWrongRole, errResp.Code)
	assert.Equal(t, "Only alumni can post jobs. Your current role is: student", errResp.Error)

	w = app.do(t, http.MethodPost, "/jobs", pending, job)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeNotApproved, decode[dto.ErrorResponse](t, w).Code)

	w = app.do(t, http.MethodPost, "/meetings/665f1c2e9b1d4c3a2f0e1d2c/register", pending, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeNotApproved, decode[dto.ErrorResponse](t, w).Code)

	w = app.do(t, http.MethodGet, "/admin/stats", student, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeWrongRole, decode[dto.ErrorResponse](t, w).Code)
}

func TestJobLifecycle(t *testing.T) {
	app := newTestApp(t, nil)
	alumni := app.member(t, "arjun", models.RoleAlumni, true)

	w := app.do(t, http.MethodPost, "/jobs", alumni, map[string]any{
		"title": "  SRE  ", "company": "Zoho", "location": "Chennai",
		"job_type": "full-time", "experience_level": "senior",
		"description": "Run production", "requirements": "Linux",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.JobCreatedResponse](t, w)
	assert.Equal(t, "SRE", created.Job.Title)

	w = app.do(t, http.MethodGet, "/jobs/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodDelete, "/jobs/"+created.ID, alumni, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/jobs/"+created.ID, "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, decode[dto.ErrorResponse](t, w).Code)

	w = app.do(t, http.MethodGet, "/jobs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]dto.JobResponse](t, w))
}

func TestMeetingCapacity(t *testing.T) {
	app := newTestApp(t, nil)
	host := app.member(t, "divya", models.RoleAlumni, true)
	first := app.member(t, "kiran", models.RoleStudent, true)
	second := app.member(t, "meena", models.RoleStudent, true)

	w := app.do(t, http.MethodPost, "/meetings", host, meetingBody(1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	meetingID := decode[dto.MeetingCreatedResponse](t, w).ID

	w = app.do(t, http.MethodPost, "/meetings/"+meetingID+"/register", first, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 0, decode[dto.RegistrationResponse](t, w).SpotsLeft)

	w = app.do(t, http.MethodPost, "/meetings/"+meetingID+"/register", first, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeAlreadyRegistered, decode[dto.ErrorResponse](t, w).Code)

	w = app.do(t, http.MethodPost, "/meetings/"+meetingID+"/register", second, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	errResp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorCodeMeetingFull, errResp.Code)

	w = app.do(t, http.MethodGet, "/meetings/"+meetingID, first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	meeting := decode[dto.MeetingResponse](t, w)
	assert.True(t, meeting.IsRegistered)
	assert.Equal(t, 1, meeting.RegistrationCount)

	w = app.do(t, http.MethodGet, "/meetings/"+meetingID+"/registrations", first, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(t, http.MethodGet, "/meetings/"+meetingID+"/registrations", host, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.MeetingRegistration](t, w), 1)

	w = app.do(t, http.MethodDelete, "/meetings/"+meetingID+"/register", first, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = app.do(t, http.MethodPost, "/meetings/"+meetingID+"/register", second, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	// approval plus two registrations
	w = app.do(t, http.MethodGet, "/notifications/unread-count", host, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), decode[dto.UnreadCountResponse](t, w).UnreadCount)

	w = app.do(t, http.MethodPut, "/notifications/read-all", host, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), decode[dto.CountResponse](t, w).Updated)
}

func TestMeetingAccessDetails(t *testing.T) {
	app := newTestApp(t, nil)
	host := app.member(t, "divya", models.RoleAlumni, true)
	attendee := app.member(t, "kiran", models.RoleStudent, true)
	onlooker := app.member(t, "meena", models.RoleStudent, true)
	admin := app.login(t, adminEmail, adminPassword)

	w := app.do(t, http.MethodPost, "/meetings", host, meetingBody(5))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.MeetingCreatedResponse](t, w)
	require.NotEmpty(t, created.Meeting.MeetingURL, "the host sees the details it just created")

	w = app.do(t, http.MethodPost, "/meetings/"+created.ID+"/register", attendee, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	hidden := map[string]string{"anonymous": "", "unregistered": onlooker}
	for name, token := range hidden {
		t.Run(name, func(t *testing.T) {
			w := app.do(t, http.MethodGet, "/meetings/"+created.ID, token, nil)
			require.Equal(t, http.StatusOK, w.Code)
			for _, field := range []string{"meeting_url", "meeting_id", "password"} {
				assert.NotContains(t, w.Body.String(), `"`+field+`"`)
			}

			w = app.do(t, http.MethodGet, "/meetings", token, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.NotContains(t, w.Body.String(), `"meeting_url"`)
		})
	}

	shown := map[string]string{"registered": attendee, "host": host, "admin": admin}
	for name, token := range shown {
		t.Run(name, func(t *testing.T) {
			w := app.do(t, http.MethodGet, "/meetings/"+created.ID, token, nil)
			require.Equal(t, http.StatusOK, w.Code)
			got := decode[dto.MeetingResponse](t, w)
			assert.Equal(t, created.Meeting.MeetingURL, got.MeetingURL)
			assert.Equal(t, created.Meeting.ExternalID, got.ExternalID)
			assert.Equal(t, created.Meeting.Password, got.Password)
		})
	}
}

func TestJobFormBinding(t *testing.T) {
	app := newTestApp(t, nil)
	alumnus := app.member(t, "vikram", models.RoleAlumni, true)

	tests := []struct {
		field, value, want string
	}{
		{"application_url", "careers page", "application_url must be a valid URL"},
		{"contact_email", "hr-at-zoho", "contact_email must be a valid email address"},
		{"job_type", "freelance", "job_type must be one of: full-time part-time internship contract"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			job := map[string]any{
				"title": "Backend Engineer", "company": "Zoho", "location": "Chennai",
				"job_type": "full-time", "experience_level": "mid",
				"description": "Go services", "requirements": "Go",
			}
			job[tt.field] = tt.value

			w := app.do(t, http.MethodPost, "/jobs", alumnus, job)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decode[dto.ErrorResponse](t, w).Error)
		})
	}
}

func TestAdminWorkflow(t *testing.T) {
	app := newTestApp(t, nil)
	admin := app.login(t, adminEmail, adminPassword)

	w := app.do(t, http.MethodPost, "/auth/register", "", registration("nila", models.RoleAlumni))
	require.Equal(t, http.StatusCreated, w.Code)
	pendingID := decode[dto.RegisterResponse](t, w).Profile.ID

	w = app.do(t, http.MethodGet, "/admin/profiles/pending", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pending := decode[[]models.Profile](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, pendingID, pending[0].ID)

	w = app.do(t, http.MethodDelete, "/admin/profiles/"+pendingID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodDelete, "/admin/profiles/"+pendingID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[dto.AdminStats](t, w)
	assert.Zero(t, stats.PendingUsers)
}

// failingJobs breaks listing so the unclassified error path can be observed
type failingJobs struct {
	repositories.JobRepository
}

func (failingJobs) List(context.Context, models.JobFilter) ([]*models.Job, error) {
	return nil, fmt.Errorf("cursor: %w", errors.New("server selection timeout"))
}

func TestUnexpectedErrorEnvelope(t *testing.T) {
	app := newTestApp(t, func(r *repositories.Repositories) {
		r.JobRepository = failingJobs{r.JobRepository}
	})

	w := app.do(t, http.MethodGet, "/jobs", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	errResp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, dto.ErrorCodeInternalServer, errResp.Code)
	assert.Equal(t, "Failed to fetch jobs", errResp.Error)
	assert.Contains(t, errResp.Details, "server selection timeout")
}
