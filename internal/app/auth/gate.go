package auth

import (
	"fmt"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
)

// CanPost reports whether p may create, edit or archive jobs and meetings
func CanPost(p *models.Profile) bool {
	return p != nil && p.Role == models.RoleAlumni && p.IsApproved
}

// CanAdminister reports whether p may act on the approval queues
func CanAdminister(p *models.Profile) bool {
	return p != nil && p.Role == models.RoleAdmin
}

// RequirePoster explains why p may not perform action, keeping the three causes distinct.
// action reads like "post jobs" or "schedule meetings".
func RequirePoster(p *models.Profile, action string) error {
	if p == nil {
		return apperrors.NewUnauthenticatedError(fmt.Sprintf("You must be logged in to %s", action))
	}
	if p.Role != models.RoleAlumni {
		return &apperrors.CustomError{
			Err:     apperrors.ErrWrongRole,
			Message: fmt.Sprintf("Only alumni can %s. Your current role is: %s", action, p.Role),
			Code:    apperrors.ErrWrongRole.Code,
		}
	}
	if !p.IsApproved {
		return &apperrors.CustomError{
			Err:     apperrors.ErrNotApproved,
			Message: fmt.Sprintf("Your profile needs to be approved before you can %s.", action),
			Code:    apperrors.ErrNotApproved.Code,
		}
	}
	return nil
}

// RequireApproved is the gate for acting as a member, e.g. registering for meetings
func RequireApproved(p *models.Profile, action string) error {
	if p == nil {
		return apperrors.NewUnauthenticatedError(fmt.Sprintf("You must be logged in to %s", action))
	}
	if !p.IsApproved && p.Role != models.RoleAdmin {
		return &apperrors.CustomError{
			Err:     apperrors.ErrNotApproved,
			Message: fmt.Sprintf("Your profile needs to be approved before you can %s.", action),
			Code:    apperrors.ErrNotApproved.Code,
		}
	}
	return nil
}

// RequireAdmin is the gate for approval-queue actions
func RequireAdmin(p *models.Profile) error {
	if p == nil {
		return apperrors.NewUnauthenticatedError("You must be logged in to access the admin panel")
	}
	if !CanAdminister(p) {
		return &apperrors.CustomError{
			Err:     apperrors.ErrWrongRole,
			Message: fmt.Sprintf("Only admins can access the admin panel. Your current role is: %s", p.Role),
			Code:    apperrors.ErrWrongRole.Code,
		}
	}
	return nil
}

// RequireOwnerOrAdmin lets the owner of a resource or any admin modify it.
// Owners must additionally pass RequirePoster.
func RequireOwnerOrAdmin(p *models.Profile, ownerID, action string) error {
	if CanAdminister(p) {
		return nil
	}
	if err := RequirePoster(p, action); err != nil {
		return err
	}
	if p.ID != ownerID {
		return apperrors.NewForbiddenError(fmt.Sprintf("You can only %s that you created", action))
	}
	return nil
}
