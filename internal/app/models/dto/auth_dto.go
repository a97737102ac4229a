package dto

import "github.com/svce/alumniconnect/internal/app/models"

// RegisterRequest is the self-registration form
type RegisterRequest struct {
	Email           string      `json:"email" binding:"required" example:"priya@svce.ac.in"`
	Password        string      `json:"password" binding:"required" example:"s3cret!"`
	ConfirmPassword string      `json:"confirm_password" binding:"required" example:"s3cret!"`
	FullName        string      `json:"full_name" binding:"required" example:"Priya Raman"`
	Role            models.Role `json:"role" binding:"required" example:"alumni"`
	Department      string      `json:"department" binding:"required" example:"Computer Science"`
	GraduationYear  int         `json:"graduation_year" binding:"required" example:"2019"`
	CurrentCompany  *string     `json:"current_company,omitempty" example:"Zoho"`
	CurrentPosition *string     `json:"current_position,omitempty" example:"Senior Engineer"`
	Phone           *string     `json:"phone,omitempty"`
	LinkedInURL     *string     `json:"linkedin_url,omitempty"`
	Bio             *string     `json:"bio,omitempty" binding:"omitempty,max=2000"`
}

// RegisterResponse is returned after registration; the profile awaits approval
type RegisterResponse struct {
	Success bool            `json:"success" example:"true"`
	Message string          `json:"message" example:"Registration successful. Your profile is pending admin approval."`
	Profile *models.Profile `json:"profile"`
}

// LoginRequest carries credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"priya@svce.ac.in"`
	Password string `json:"password" binding:"required" example:"s3cret!"`
}

// LoginResponse carries the bearer token and the caller's profile
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type" example:"Bearer"`
	ExpiresIn   int             `json:"expires_in" example:"86400"`
	Profile     *models.Profile `json:"profile"`
}
