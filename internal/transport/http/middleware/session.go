package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/security"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

const (
	// CSRFHeader carries the anti-forgery token on state-changing requests.
	CSRFHeader = "X-CSRF-Token"
	// UserIDKey is the gin context key for the authenticated user id.
	UserIDKey = "user_id"
	// SessionKey is the gin context key for the resolved session record.
	SessionKey = "session"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:     errorMsg,
		RequestID: requestIDFromContext(c.Request.Context()),
	}
}

// RequireSession resolves the session cookie and guards state-changing
// requests with the CSRF token. A missing or stale cookie is a hard 401, as
// is a session whose user row has been deleted out from under it; a non-GET
// request whose header token does not match the stored one in constant time
// is a hard 403. A session without a stored CSRF token rejects every non-GET
// request until the client fetches its profile, which issues one.
func RequireSession(sessions port.SessionStore, users port.UserRepository, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := resolveSession(c, sessions, cookieName)
		if session == nil || !userExists(c, users, session) {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if c.Request.Method != http.MethodGet {
			header := c.GetHeader(CSRFHeader)
			if !security.TokensEqual(header, session.CSRFToken) {
				c.AbortWithStatusJSON(http.StatusForbidden,
					newErrorResponse(c, "invalid csrf token"))
				return
			}
		}

		c.Set(UserIDKey, session.UserID)
		c.Set(SessionKey, session)

		c.Next()
	}
}

// OptionalSession resolves the session cookie when present but lets
// anonymous requests through. Used by read-only endpoints that personalize
// their response for logged-in viewers.
func OptionalSession(sessions port.SessionStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session := resolveSession(c, sessions, cookieName); session != nil {
			c.Set(UserIDKey, session.UserID)
			c.Set(SessionKey, session)
		}
		c.Next()
	}
}

// userExists rejects sessions that outlived their account.
func userExists(c *gin.Context, users port.UserRepository, session *domain.Session) bool {
	if _, err := users.GetByID(c.Request.Context(), session.UserID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			c.Error(err) //nolint:errcheck
		}
		return false
	}
	return true
}

func resolveSession(c *gin.Context, sessions port.SessionStore, cookieName string) *domain.Session {
	id, err := c.Cookie(cookieName)
	if err != nil || id == "" {
		return nil
	}

	session, err := sessions.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			c.Error(err) //nolint:errcheck
		}
		return nil
	}
	return session
}

// SessionFromContext returns the session record the guard resolved, or nil.
func SessionFromContext(c *gin.Context) *domain.Session {
	if val, exists := c.Get(SessionKey); exists {
		if session, ok := val.(*domain.Session); ok {
			return session
		}
	}
	return nil
}

// UserIDFromContext returns the authenticated user id, or empty for
// anonymous requests.
func UserIDFromContext(c *gin.Context) string {
	if val, exists := c.Get(UserIDKey); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}
