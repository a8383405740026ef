package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campusevents/models"
	"campusevents/utils"
)

const (
	// SessionCookie carries the session token in browsers.
	SessionCookie = "session"

	ctxUserID    = "userId"
	ctxIdentity  = "identity"
	ctxSessionID = "sessionId"
)

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message":  "Not authenticated.",
		"redirect": "/login",
	})
}

// Authenticate resolves the caller from the session token. The token must
// verify, its session must still exist in Redis and its user must still
// exist; the role is read from the user row, not from the token.
func Authenticate(tokens *utils.TokenManager, sessions *utils.SessionStore, users models.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			unauthenticated(c)
			return
		}
		claims, err := tokens.VerifyToken(token)
		if err != nil {
			unauthenticated(c)
			return
		}

		ctx := c.Request.Context()
		ok, err := sessions.Exists(ctx, claims.UserID, claims.SessionID)
		if err != nil {
			slog.ErrorContext(ctx, "session lookup failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not verify session."})
			return
		}
		if !ok {
			unauthenticated(c)
			return
		}

		user, err := users.GetByID(ctx, claims.UserID)
		if errors.Is(err, models.ErrNotFound) {
			unauthenticated(c)
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "load session user failed", "userId", claims.UserID, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not verify session."})
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxSessionID, claims.SessionID)
		c.Set(ctxIdentity, &models.Identity{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

// CurrentIdentity returns the identity set by Authenticate, or nil.
func CurrentIdentity(c *gin.Context) *models.Identity {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*models.Identity)
	return id
}

// CurrentSessionID returns the session id set by Authenticate.
func CurrentSessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}
