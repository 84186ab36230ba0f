package handlers

import (
	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SignUpRequest represents the request body for user registration.
// Field rules are checked by the service so every problem is reported at once.
type SignUpRequest struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirm_password"`
	Role            models.Role `json:"role"`
}

// SignInRequest represents the request body for signing in.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token to exchange or revoke.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SignUp registers a user and signs them in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.auth.SignUp(c.Request.Context(), services.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Account created successfully", result)
}

// SignIn exchanges credentials for a token pair.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Signed in successfully", result)
}

// RefreshToken rotates a refresh token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Token refreshed successfully", result)
}

// SignOut revokes the refresh token in the body, if any.
func (h *AuthHandler) SignOut(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if c.Request.ContentLength != 0 && !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), userID, req.RefreshToken); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Signed out successfully", nil)
}

// Session returns the signed-in user's profile.
func (h *AuthHandler) Session(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.auth.Session(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Session retrieved successfully", user)
}
