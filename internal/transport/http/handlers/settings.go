package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/security"
	"github.com/alexandre-hallaine/Camagru/internal/transport/http/middleware"
	"github.com/alexandre-hallaine/Camagru/internal/usecase"
)

// SettingsHandler exposes the profile read and mutation endpoints.
type SettingsHandler struct {
	settings *usecase.SettingsService
	sessions port.SessionStore
}

// NewSettingsHandler constructs the settings handler.
func NewSettingsHandler(settings *usecase.SettingsService, sessions port.SessionStore) *SettingsHandler {
	return &SettingsHandler{settings: settings, sessions: sessions}
}

// Get returns the profile and issues a fresh CSRF token. Rotation happens on
// every fetch, so the token in any previously rendered page goes stale the
// moment the profile is reloaded elsewhere.
func (h *SettingsHandler) Get(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	profile, err := h.settings.Get(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load profile"))
		return
	}

	csrf, err := security.GenerateToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue csrf token"))
		return
	}

	rotated := *session
	rotated.CSRFToken = csrf
	if err := h.sessions.Save(c.Request.Context(), rotated); err != nil {
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue csrf token"))
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		User:           newUserSummary(profile.User),
		Email:          profile.Settings.Email,
		NotifyComments: profile.Settings.NotifyComments,
		CSRFToken:      csrf,
	})
}

// Update applies profile changes. Email changes are parked in the ledger; the
// response flags them so the client can tell the user to check their inbox.
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid settings payload"))
		return
	}

	update := usecase.SettingsUpdate{
		Username:       req.Username,
		Password:       req.Password,
		Email:          req.Email,
		NotifyComments: req.NotifyComments,
	}

	result, err := h.settings.Update(c.Request.Context(), userID, update)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUsernameTaken, Status: http.StatusConflict, Message: "username already taken"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: usecase.ErrWeakPassword.Error()},
			{Err: usecase.ErrInvalidEmail, Status: http.StatusBadRequest, Message: "invalid email address"},
			{Err: usecase.ErrNotifierFailure, Status: http.StatusBadGateway, Message: "confirmation email could not be sent"},
		}, http.StatusInternalServerError, "failed to update settings")
		return
	}

	message := "settings updated"
	if result.EmailDeferred {
		message = "settings updated, confirm the new email from your inbox"
	}

	c.JSON(http.StatusOK, SettingsUpdateResponse{
		Message:       message,
		EmailDeferred: result.EmailDeferred,
	})
}
