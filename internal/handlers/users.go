package handlers

import (
	"github.com/gin-gonic/gin"

	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/utils"
)

// UserHandler serves user profiles.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the signed-in user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Profile retrieved successfully", user)
}

// UpdateProfile changes the fields present in the body.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.ProfileUpdate
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "Profile updated successfully", user)
}

// GetUserByID returns another user's profile, trimmed to the public fields
// unless the caller may see more.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	h.respondVisible(c, userID, role, user)
}

func (h *UserHandler) respondVisible(c *gin.Context, viewerID string, role models.Role, user *models.User) {
	view, err := h.users.Visible(c.Request.Context(), viewerID, role, user)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "User retrieved successfully", view)
}

// GetUserByEmail looks a user up by email. A miss is not an error.
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		return
	}

	var query struct {
		Email string `form:"email" binding:"required,email"`
	}
	if !utils.BindQuery(c, &query) {
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), query.Email)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if user == nil {
		utils.Success(c, "No user found with that email", nil)
		return
	}
	h.respondVisible(c, userID, role, user)
}
