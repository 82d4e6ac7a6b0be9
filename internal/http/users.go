package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/service"
)

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ProfileResponse is the user plus a widget-id keyed map of their dashboard
// panels, assembled from the widgets collection.
type ProfileResponse struct {
	UserResponse
	Widgets map[string]WidgetSummary `json:"widgets"`
}

type WidgetSummary struct {
	WidgetType string          `json:"widgetType"`
	Settings   json.RawMessage `json:"settings"`
}

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"user":  userToResponse(user),
		"token": token,
	})
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"user":  userToResponse(user),
		"token": token,
	})
}

func (h *Handler) signOut(c *gin.Context) {
	h.clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (h *Handler) getProfile(c *gin.Context) {
	userID := currentUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	widgets, err := h.widgets.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := ProfileResponse{
		UserResponse: userToResponse(user),
		Widgets:      make(map[string]WidgetSummary, len(widgets)),
	}
	for _, w := range widgets {
		resp.Widgets[w.ID] = WidgetSummary{
			WidgetType: string(w.Type),
			Settings:   w.Settings,
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUserID(c), profileUpdate(req))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.users.DeleteAccount(c.Request.Context(), currentUserID(c)); err != nil {
		h.respondError(c, err)
		return
	}

	h.clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

func (h *Handler) setTokenCookie(c *gin.Context, token string) {
	c.SetCookie(tokenCookie, token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
}

func (h *Handler) clearTokenCookie(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", false, true)
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func profileUpdate(req updateProfileRequest) service.ProfileUpdate {
	return service.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}
