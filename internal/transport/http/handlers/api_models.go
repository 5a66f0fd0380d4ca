package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/infra/logger"
)

// ErrorResponse represents a generic error payload with the request id for
// log correlation.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request id.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	requestID := ""
	if id, ok := c.Request.Context().Value(logger.RequestIDKey{}).(string); ok {
		requestID = id
	}

	return ErrorResponse{
		Error:     errorMsg,
		RequestID: requestID,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest defines the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest defines the payload for credential login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetRequest defines the payload for a password reset request. The
// replacement password is collected up front; it takes effect only when the
// emailed link is redeemed.
type ResetRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RedeemRequest defines the payload for token redemption.
type RedeemRequest struct {
	Token string `json:"token"`
}

// UserSummary describes a minimal view of a user returned by the API.
type UserSummary struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	IsConfirmed  bool      `json:"is_confirmed"`
	RegisteredAt time.Time `json:"registered_at"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:           user.ID,
		Username:     user.Username,
		IsConfirmed:  user.IsConfirmed,
		RegisteredAt: user.RegisteredAt,
	}
}

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// SettingsResponse describes the profile returned by the settings endpoint.
// The CSRF token piggybacks on this response; fetching the profile is what
// arms the client for state-changing requests.
type SettingsResponse struct {
	User           UserSummary `json:"user"`
	Email          string      `json:"email"`
	NotifyComments bool        `json:"notify_comments"`
	CSRFToken      string      `json:"csrf_token"`
}

// SettingsUpdateRequest defines the optional fields of a settings mutation.
type SettingsUpdateRequest struct {
	Username       *string `json:"username"`
	Password       *string `json:"password"`
	Email          *string `json:"email"`
	NotifyComments *bool   `json:"notify_comments"`
}

// SettingsUpdateResponse reports the outcome of a settings mutation.
type SettingsUpdateResponse struct {
	Message       string `json:"message"`
	EmailDeferred bool   `json:"email_deferred"`
}

// ImageCreateRequest defines the payload for posting a picture.
type ImageCreateRequest struct {
	Content string `json:"content" binding:"required"`
}

// ImageResponse describes a stored image.
type ImageResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentRequest defines the payload for commenting on an image.
type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// CommentResponse describes a stored comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeResponse reports the like state after a toggle.
type LikeResponse struct {
	Liked bool `json:"liked"`
}

// HealthResponse describes the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse describes the readiness payload with per-dependency state.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
