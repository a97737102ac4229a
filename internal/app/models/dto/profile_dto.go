package dto

import "github.com/svce/alumniconnect/internal/app/models"

// UpdateProfileRequest is the self-edit form. Role and approval are not editable here.
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name,omitempty" binding:"omitempty,min=2,max=100"`
	Department      *string `json:"department,omitempty" binding:"omitempty,min=1"`
	GraduationYear  *int    `json:"graduation_year,omitempty"`
	CurrentCompany  *string `json:"current_company,omitempty"`
	CurrentPosition *string `json:"current_position,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	LinkedInURL     *string `json:"linkedin_url,omitempty"`
	Bio             *string `json:"bio,omitempty" binding:"omitempty,max=2000"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// ToUpdate converts the request into a model update
func (r UpdateProfileRequest) ToUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		FullName:        r.FullName,
		Department:      r.Department,
		GraduationYear:  r.GraduationYear,
		CurrentCompany:  r.CurrentCompany,
		CurrentPosition: r.CurrentPosition,
		Phone:           r.Phone,
		LinkedInURL:     r.LinkedInURL,
		Bio:             r.Bio,
		ProfileImageURL: r.ProfileImageURL,
	}
}

// NetworkQuery filters the alumni directory
type NetworkQuery struct {
	Role  models.Role `form:"role"`
	Query string      `form:"q"`
}

// ProfileListResponse is one page of profiles
type ProfileListResponse struct {
	Items      []*models.Profile `json:"items"`
	Pagination PaginationInfo    `json:"pagination"`
}
