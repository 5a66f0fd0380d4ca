package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/infra/config"
	"github.com/alexandre-hallaine/Camagru/internal/transport/http/middleware"
	"github.com/alexandre-hallaine/Camagru/internal/usecase"
)

// AuthHandler exposes registration, login, password reset, and token
// redemption endpoints.
type AuthHandler struct {
	auth       *usecase.AuthService
	sessionCfg config.SessionSettings
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(auth *usecase.AuthService, sessionCfg config.SessionSettings) *AuthHandler {
	return &AuthHandler{auth: auth, sessionCfg: sessionCfg}
}

// Register creates an unconfirmed account and sends its verification link.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUsernameTaken, Status: http.StatusConflict, Message: "username already taken"},
			{Err: usecase.ErrInvalidEmail, Status: http.StatusBadRequest, Message: "invalid email address"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: usecase.ErrWeakPassword.Error()},
			{Err: usecase.ErrNotifierFailure, Status: http.StatusBadGateway, Message: "verification email could not be sent, log in to retry"},
		}, http.StatusInternalServerError, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "verification email sent",
		"user":    newUserSummary(user),
	})
}

// Login verifies credentials and opens a session. Unconfirmed accounts get a
// fresh verification email instead of a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusBadRequest, Message: "invalid username or password"},
			{Err: usecase.ErrAccountNotConfirmed, Status: http.StatusForbidden, Message: "account pending verification, a new link was sent"},
			{Err: usecase.ErrNotifierFailure, Status: http.StatusBadGateway, Message: "verification email could not be sent"},
		}, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, SessionResponse{Message: "logged in", UserID: session.UserID})
}

// Logout discards the session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if session := middleware.SessionFromContext(c); session != nil {
		if err := h.auth.Logout(c.Request.Context(), session.ID); err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to log out"))
			return
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Reset defers a password reset for the named account. The new password is
// parked in the ledger until the emailed link is redeemed.
func (h *AuthHandler) Reset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid reset payload"))
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Username, req.Password); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusBadRequest, Message: "unknown username"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: usecase.ErrWeakPassword.Error()},
			{Err: usecase.ErrNotifierFailure, Status: http.StatusBadGateway, Message: "reset email could not be sent"},
		}, http.StatusInternalServerError, "failed to request reset")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "reset email sent"})
}

// Redeem consumes a confirmation token and opens a session for its user. The
// token rides the query string when the emailed link is followed directly, or
// the JSON body when the client relays it.
func (h *AuthHandler) Redeem(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		var req RedeemRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = strings.TrimSpace(req.Token)
		}
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "token is required"))
		return
	}

	session, err := h.auth.Redeem(c.Request.Context(), token)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidToken, Status: http.StatusBadRequest, Message: "invalid or already redeemed token"},
		}, http.StatusInternalServerError, "failed to redeem token")
		return
	}

	h.setSessionCookie(c, session)
	c.JSON(http.StatusOK, SessionResponse{Message: "action confirmed", UserID: session.UserID})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, session domain.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.sessionCfg.CookieName,
		session.ID,
		int(h.sessionCfg.TTL.Seconds()),
		"/",
		"",
		h.sessionCfg.CookieSecure,
		true,
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.sessionCfg.CookieName, "", -1, "/", "", h.sessionCfg.CookieSecure, true)
}
