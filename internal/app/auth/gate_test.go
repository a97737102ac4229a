package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
)

func TestCanPost(t *testing.T) {
	tests := []struct {
		role     models.Role
		approved bool
		want     bool
	}{
		{models.RoleAlumni, true, true},
		{models.RoleAlumni, false, false},
		{models.RoleStudent, true, false},
		{models.RoleStudent, false, false},
		{models.RoleAdmin, true, false},
	}

	for _, tt := range tests {
		p := &models.Profile{Role: tt.role, IsApproved: tt.approved}
		assert.Equal(t, tt.want, CanPost(p), "role=%s approved=%v", tt.role, tt.approved)
	}
	assert.False(t, CanPost(nil))
}

func TestCanAdminister(t *testing.T) {
	assert.True(t, CanAdminister(&models.Profile{Role: models.RoleAdmin}))
	assert.False(t, CanAdminister(&models.Profile{Role: models.RoleAlumni, IsApproved: true}))
	assert.False(t, CanAdminister(nil))
}

func TestRequirePoster_DistinctReasons(t *testing.T) {
	err := RequirePoster(nil, "post jobs")
	assert.True(t, errors.Is(err, apperrors.ErrNotAuthenticated))
	assert.EqualError(t, err, "You must be logged in to post jobs")

	err = RequirePoster(&models.Profile{Role: models.RoleStudent, IsApproved: true}, "post jobs")
	assert.True(t, errors.Is(err, apperrors.ErrWrongRole))
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))
	assert.EqualError(t, err, "Only alumni can post jobs. Your current role is: student")

	err = RequirePoster(&models.Profile{Role: models.RoleAlumni}, "post jobs")
	assert.True(t, errors.Is(err, apperrors.ErrNotApproved))
	assert.False(t, errors.Is(err, apperrors.ErrWrongRole))
	assert.EqualError(t, err, "Your profile needs to be approved before you can post jobs.")

	assert.NoError(t, RequirePoster(&models.Profile{Role: models.RoleAlumni, IsApproved: true}, "post jobs"))
}

func TestRequireApproved(t *testing.T) {
	assert.True(t, errors.Is(RequireApproved(nil, "register"), apperrors.ErrNotAuthenticated))
	assert.True(t, errors.Is(RequireApproved(&models.Profile{Role: models.RoleStudent}, "register"), apperrors.ErrNotApproved))
	assert.NoError(t, RequireApproved(&models.Profile{Role: models.RoleStudent, IsApproved: true}, "register"))
	assert.NoError(t, RequireApproved(&models.Profile{Role: models.RoleAdmin}, "register"))
}

func TestRequireAdmin(t *testing.T) {
	assert.True(t, errors.Is(RequireAdmin(nil), apperrors.ErrNotAuthenticated))
	assert.True(t, errors.Is(RequireAdmin(&models.Profile{Role: models.RoleAlumni, IsApproved: true}), apperrors.ErrWrongRole))
	assert.NoError(t, RequireAdmin(&models.Profile{Role: models.RoleAdmin}))
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	owner := &models.Profile{ID: "u1", Role: models.RoleAlumni, IsApproved: true}
	other := &models.Profile{ID: "u2", Role: models.RoleAlumni, IsApproved: true}
	admin := &models.Profile{ID: "a1", Role: models.RoleAdmin}

	assert.NoError(t, RequireOwnerOrAdmin(owner, "u1", "edit jobs"))
	assert.NoError(t, RequireOwnerOrAdmin(admin, "u1", "edit jobs"))
	assert.True(t, errors.Is(RequireOwnerOrAdmin(other, "u1", "edit jobs"), apperrors.ErrPermissionDenied))

	owner.IsApproved = false
	assert.True(t, errors.Is(RequireOwnerOrAdmin(owner, "u1", "edit jobs"), apperrors.ErrNotApproved))
}
