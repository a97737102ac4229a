package models

import (
	"time"
)

// Profile is a registered person's account record, stored in the 'profiles' table
type Profile struct {
	ID              string    `json:"id" db:"id" example:"3f1c2a9e-6a0b-4d5e-9a3f-2c1b0e9d8f7a"`
	Email           string    `json:"email" db:"email" example:"priya@svce.ac.in"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	FullName        string    `json:"full_name" db:"full_name" example:"Priya Raman"`
	Role            Role      `json:"role" db:"role" example:"alumni"`
	IsApproved      bool      `json:"is_approved" db:"is_approved"`
	Department      string    `json:"department" db:"department" example:"Computer Science"`
	GraduationYear  int       `json:"graduation_year" db:"graduation_year" example:"2019"`
	CurrentCompany  *string   `json:"current_company,omitempty" db:"current_company"`
	CurrentPosition *string   `json:"current_position,omitempty" db:"current_position"`
	Phone           *string   `json:"phone,omitempty" db:"phone"`
	LinkedInURL     *string   `json:"linkedin_url,omitempty" db:"linkedin_url"`
	Bio             *string   `json:"bio,omitempty" db:"bio"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty" db:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileFilter narrows profile listings. Zero values mean "any".
type ProfileFilter struct {
	Role      Role
	Approved  *bool
	ExcludeID string
	// Query matches name, company, position or department case-insensitively
	Query  string
	Offset uint64
	Limit  int
}

// ProfileUpdate carries the fields a user may change on their own profile
type ProfileUpdate struct {
	FullName        *string
	Department      *string
	GraduationYear  *int
	CurrentCompany  *string
	CurrentPosition *string
	Phone           *string
	LinkedInURL     *string
	Bio             *string
	ProfileImageURL *string
}

// Apply merges u into p
func (u ProfileUpdate) Apply(p *Profile) {
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.Department != nil {
		p.Department = *u.Department
	}
	if u.GraduationYear != nil {
		p.GraduationYear = *u.GraduationYear
	}
	if u.CurrentCompany != nil {
		p.CurrentCompany = nilIfEmpty(*u.CurrentCompany)
	}
	if u.CurrentPosition != nil {
		p.CurrentPosition = nilIfEmpty(*u.CurrentPosition)
	}
	if u.Phone != nil {
		p.Phone = nilIfEmpty(*u.Phone)
	}
	if u.LinkedInURL != nil {
		p.LinkedInURL = nilIfEmpty(*u.LinkedInURL)
	}
	if u.Bio != nil {
		p.Bio = nilIfEmpty(*u.Bio)
	}
	if u.ProfileImageURL != nil {
		p.ProfileImageURL = nilIfEmpty(*u.ProfileImageURL)
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
