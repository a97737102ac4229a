// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/app/services"
	"github.com/svce/alumniconnect/internal/middleware"
)

// AuthController handles sign-up and sign-in
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles self-registration
// @Summary Register a new profile
// @Description Creates a student or alumni profile that waits for admin approval
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration form"
// @Success 201 {object} dto.RegisterResponse "Profile created, pending approval"
// @Failure 400 {object} dto.ErrorResponse "Invalid registration data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to register")
		return
	}

	ctx.JSON(http.StatusCreated, dto.RegisterResponse{
		Success: true,
		Message: "Registration successful. Your profile is pending admin approval.",
		Profile: profile,
	})
}

// Login handles sign-in
// @Summary Log in
// @Description Checks credentials and returns a bearer token with the caller's profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleOperationError(ctx, err, "Failed to log in")
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
