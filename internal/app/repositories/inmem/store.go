// Package inmem keeps every repository in process memory. It backs the
// "memory" database driver and the service tests.
package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/app/repositories"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
)

type regKey struct {
	meetingID string
	userID    string
}

// DB holds all portal data behind one lock
type DB struct {
	mu            sync.RWMutex
	profiles      map[string]*models.Profile
	jobs          map[string]*models.Job
	meetings      map[string]*models.Meeting
	slots         map[string]*models.MeetingSlot
	registrations map[regKey]*models.MeetingRegistration
	notifications []*models.Notification
}

// New creates an empty DB
func New() *DB {
	return &DB{
		profiles:      make(map[string]*models.Profile),
		jobs:          make(map[string]*models.Job),
		meetings:      make(map[string]*models.Meeting),
		slots:         make(map[string]*models.MeetingSlot),
		registrations: make(map[regKey]*models.MeetingRegistration),
	}
}

// Repositories exposes the DB through the repository interfaces
func (db *DB) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		ProfileRepository:      &ProfileRepository{db: db},
		JobRepository:          &JobRepository{db: db},
		MeetingRepository:      &MeetingRepository{db: db},
		RegistrationRepository: &RegistrationRepository{db: db},
		NotificationRepository: &NotificationRepository{db: db},
		Health:                 map[string]repositories.Pinger{"memory": db},
	}
}

// Ping always succeeds
func (db *DB) Ping(context.Context) error {
	return nil
}

func copyProfile(p *models.Profile) *models.Profile {
	c := *p
	return &c
}

func copyJob(j *models.Job) *models.Job {
	c := *j
	return &c
}

func copyMeeting(m *models.Meeting) *models.Meeting {
	c := *m
	return &c
}

// ProfileRepository is the in-memory profile store
type ProfileRepository struct {
	db *DB
}

func (r *ProfileRepository) Create(_ context.Context, p *models.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	email := strings.ToLower(p.Email)
	for _, existing := range r.db.profiles {
		if existing.Email == email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Email = email
	r.db.profiles[p.ID] = copyProfile(p)
	return nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id string) (*models.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return copyProfile(p), nil
}

func (r *ProfileRepository) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	email = strings.ToLower(email)
	for _, p := range r.db.profiles {
		if p.Email == email {
			return copyProfile(p), nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, apperrors.ErrResourceNotFound) {
		return false, nil
	}
	return false, err
}

func (r *ProfileRepository) Update(_ context.Context, p *models.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.profiles[p.ID]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	updated := copyProfile(p)
	// Identity and approval are not self-editable
	updated.Email = existing.Email
	updated.PasswordHash = existing.PasswordHash
	updated.Role = existing.Role
	updated.IsApproved = existing.IsApproved
	updated.CreatedAt = existing.CreatedAt
	r.db.profiles[p.ID] = updated
	return nil
}

func (r *ProfileRepository) SetApproved(_ context.Context, id string, approved bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	p.IsApproved = approved
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProfileRepository) DeletePending(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	if p.IsApproved {
		return apperrors.ErrProfileAlreadyActive
	}
	delete(r.db.profiles, id)
	return nil
}

func matchProfile(p *models.Profile, f models.ProfileFilter) bool {
	if f.Role != "" && p.Role != f.Role {
		return false
	}
	if f.Approved != nil && p.IsApproved != *f.Approved {
		return false
	}
	if f.ExcludeID != "" && p.ID == f.ExcludeID {
		return false
	}
	return helpers.ContainsFold(f.Query, p.FullName, deref(p.CurrentCompany), deref(p.CurrentPosition), p.Department)
}

func (r *ProfileRepository) filter(f models.ProfileFilter) []*models.Profile {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.Profile{}
	for _, p := range r.db.profiles {
		if matchProfile(p, f) {
			out = append(out, copyProfile(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *ProfileRepository) List(_ context.Context, f models.ProfileFilter) ([]*models.Profile, error) {
	out := r.filter(f)
	if f.Limit <= 0 {
		return out, nil
	}
	return page(out, f.Offset, f.Limit), nil
}

func (r *ProfileRepository) Count(_ context.Context, f models.ProfileFilter) (int64, error) {
	return int64(len(r.filter(f))), nil
}

// JobRepository is the in-memory job store
type JobRepository struct {
	db *DB
}

func (r *JobRepository) Create(_ context.Context, j *models.Job) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	j.ID = primitive.NewObjectID().Hex()
	r.db.jobs[j.ID] = copyJob(j)
	return nil
}

func (r *JobRepository) GetByID(_ context.Context, id string) (*models.Job, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	j, ok := r.db.jobs[id]
	if !ok {
		return nil, apperrors.ErrJobNotFound
	}
	return copyJob(j), nil
}

func matchJob(j *models.Job, f models.JobFilter) bool {
	if !j.IsActive() {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if f.ExperienceLevel != "" && j.ExperienceLevel != f.ExperienceLevel {
		return false
	}
	if f.PostedBy != "" && j.PostedBy != f.PostedBy {
		return false
	}
	if f.Approved != nil && j.IsApproved != *f.Approved {
		return false
	}
	return helpers.ContainsFold(f.Query, j.Title, j.Company, j.Location)
}

func (r *JobRepository) List(_ context.Context, f models.JobFilter) ([]*models.Job, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.Job{}
	for _, j := range r.db.jobs {
		if matchJob(j, f) {
			out = append(out, copyJob(j))
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID > out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *JobRepository) Count(_ context.Context, f models.JobFilter) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, j := range r.db.jobs {
		if matchJob(j, f) {
			n++
		}
	}
	return n, nil
}

// mutateActive applies fn to an active job under the write lock
func (r *JobRepository) mutateActive(id string, fn func(*models.Job)) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	j, ok := r.db.jobs[id]
	if !ok || !j.IsActive() {
		return apperrors.ErrJobNotFound
	}
	fn(j)
	return nil
}

func (r *JobRepository) Update(_ context.Context, id string, patch models.JobPatch, now time.Time) error {
	return r.mutateActive(id, func(j *models.Job) {
		patch.Apply(j)
		j.UpdatedAt = now
	})
}

func (r *JobRepository) Archive(_ context.Context, id string, now time.Time) error {
	return r.mutateActive(id, func(j *models.Job) {
		j.Status = models.StatusArchived
		j.UpdatedAt = now
	})
}

func (r *JobRepository) SetApproved(_ context.Context, id string, approved bool, now time.Time) error {
	return r.mutateActive(id, func(j *models.Job) {
		j.IsApproved = approved
		j.UpdatedAt = now
	})
}

// MeetingRepository is the in-memory meeting store
type MeetingRepository struct {
	db *DB
}

func (r *MeetingRepository) Create(_ context.Context, m *models.Meeting) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m.ID = primitive.NewObjectID().Hex()
	r.db.meetings[m.ID] = copyMeeting(m)
	return nil
}

func (r *MeetingRepository) GetByID(_ context.Context, id string) (*models.Meeting, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.meetings[id]
	if !ok {
		return nil, apperrors.ErrMeetingNotFound
	}
	return copyMeeting(m), nil
}

func matchMeeting(m *models.Meeting, f models.MeetingFilter) bool {
	if !m.IsActive() {
		return false
	}
	if f.HostID != "" && m.HostID != f.HostID {
		return false
	}
	if f.IDs != nil && !contains(f.IDs, m.ID) {
		return false
	}
	if !f.From.IsZero() && m.MeetingDate.Before(f.From) {
		return false
	}
	if !f.Until.IsZero() && !m.MeetingDate.Before(f.Until) {
		return false
	}
	return true
}

func (r *MeetingRepository) List(_ context.Context, f models.MeetingFilter) ([]*models.Meeting, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.Meeting{}
	for _, m := range r.db.meetings {
		if matchMeeting(m, f) {
			out = append(out, copyMeeting(m))
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].MeetingDate.Equal(out[b].MeetingDate) {
			return out[a].ID < out[b].ID
		}
		return out[a].MeetingDate.Before(out[b].MeetingDate)
	})
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MeetingRepository) Count(_ context.Context, f models.MeetingFilter) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, m := range r.db.meetings {
		if matchMeeting(m, f) {
			n++
		}
	}
	return n, nil
}

func (r *MeetingRepository) mutateActive(id string, fn func(*models.Meeting)) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.meetings[id]
	if !ok || !m.IsActive() {
		return apperrors.ErrMeetingNotFound
	}
	fn(m)
	return nil
}

func (r *MeetingRepository) Update(_ context.Context, id string, patch models.MeetingPatch, now time.Time) error {
	return r.mutateActive(id, func(m *models.Meeting) {
		patch.Apply(m)
		m.UpdatedAt = now
	})
}

func (r *MeetingRepository) Archive(_ context.Context, id string, now time.Time) error {
	return r.mutateActive(id, func(m *models.Meeting) {
		m.Status = models.StatusArchived
		m.UpdatedAt = now
	})
}

// RegistrationRepository is the in-memory capacity and registration store
type RegistrationRepository struct {
	db *DB
}

func (r *RegistrationRepository) UpsertSlot(_ context.Context, meetingID string, maxParticipants int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	slot, ok := r.db.slots[meetingID]
	if !ok {
		r.db.slots[meetingID] = &models.MeetingSlot{MeetingID: meetingID, MaxParticipants: maxParticipants}
		return nil
	}
	if slot.RegisteredCount > maxParticipants {
		return apperrors.NewValidationError("Max participants cannot be lower than the current number of registrations")
	}
	slot.MaxParticipants = maxParticipants
	return nil
}

func (r *RegistrationRepository) GetSlot(_ context.Context, meetingID string) (*models.MeetingSlot, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	slot, ok := r.db.slots[meetingID]
	if !ok {
		return nil, apperrors.ErrMeetingNotFound
	}
	c := *slot
	return &c, nil
}

// Register checks for duplicates and capacity and records the registration under one lock
func (r *RegistrationRepository) Register(_ context.Context, reg *models.MeetingRegistration) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	slot, ok := r.db.slots[reg.MeetingID]
	if !ok {
		return apperrors.ErrMeetingNotFound
	}
	key := regKey{meetingID: reg.MeetingID, userID: reg.UserID}
	if _, exists := r.db.registrations[key]; exists {
		return apperrors.ErrAlreadyRegistered
	}
	if slot.RegisteredCount >= slot.MaxParticipants {
		return apperrors.ErrMeetingFull
	}
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	c := *reg
	r.db.registrations[key] = &c
	slot.RegisteredCount++
	return nil
}

func (r *RegistrationRepository) Cancel(_ context.Context, meetingID, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := regKey{meetingID: meetingID, userID: userID}
	if _, ok := r.db.registrations[key]; !ok {
		return apperrors.ErrRegistrationNotFound
	}
	delete(r.db.registrations, key)
	if slot, ok := r.db.slots[meetingID]; ok && slot.RegisteredCount > 0 {
		slot.RegisteredCount--
	}
	return nil
}

func (r *RegistrationRepository) IsRegistered(_ context.Context, meetingID, userID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.registrations[regKey{meetingID: meetingID, userID: userID}]
	return ok, nil
}

func (r *RegistrationRepository) Counts(_ context.Context, meetingIDs []string) (map[string]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	counts := make(map[string]int, len(meetingIDs))
	for _, id := range meetingIDs {
		if slot, ok := r.db.slots[id]; ok {
			counts[id] = slot.RegisteredCount
		}
	}
	return counts, nil
}

func (r *RegistrationRepository) MeetingIDsForUser(_ context.Context, userID string) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	regs := []*models.MeetingRegistration{}
	for key, reg := range r.db.registrations {
		if key.userID == userID {
			regs = append(regs, reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].RegisteredAt.After(regs[j].RegisteredAt) })

	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.MeetingID)
	}
	return ids, nil
}

func (r *RegistrationRepository) ListByMeeting(_ context.Context, meetingID string) ([]*models.MeetingRegistration, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.MeetingRegistration{}
	for key, reg := range r.db.registrations {
		if key.meetingID != meetingID {
			continue
		}
		c := *reg
		if p, ok := r.db.profiles[reg.UserID]; ok {
			c.UserName = p.FullName
			c.UserEmail = p.Email
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out, nil
}

func (r *RegistrationRepository) CountAll(context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.registrations)), nil
}

// NotificationRepository is the in-memory notification store
type NotificationRepository struct {
	db *DB
}

func (r *NotificationRepository) CreateMany(_ context.Context, notifications []*models.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		c := *n
		r.db.notifications = append(r.db.notifications, &c)
	}
	return nil
}

// forUser returns the user's notifications newest first. Callers hold the lock.
func (r *NotificationRepository) forUser(userID string) []*models.Notification {
	out := []*models.Notification{}
	for i := len(r.db.notifications) - 1; i >= 0; i-- {
		if n := r.db.notifications[i]; n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string, offset uint64, limit int) ([]*models.Notification, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	all := r.forUser(userID)
	items := make([]*models.Notification, 0, limit)
	for _, n := range page(all, offset, limit) {
		c := *n
		items = append(items, &c)
	}
	return items, int64(len(all)), nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, userID string) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, item := range r.db.notifications {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, n := range r.db.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var changed int64
	for _, n := range r.db.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func page[T any](items []T, offset uint64, limit int) []T {
	if offset >= uint64(len(items)) {
		return []T{}
	}
	end := offset + uint64(limit)
	if limit <= 0 || end > uint64(len(items)) {
		end = uint64(len(items))
	}
	return items[offset:end]
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	_ repositories.ProfileRepository      = (*ProfileRepository)(nil)
	_ repositories.JobRepository          = (*JobRepository)(nil)
	_ repositories.MeetingRepository      = (*MeetingRepository)(nil)
	_ repositories.RegistrationRepository = (*RegistrationRepository)(nil)
	_ repositories.NotificationRepository = (*NotificationRepository)(nil)
)
