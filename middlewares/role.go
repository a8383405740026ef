package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/access"
)

// RequireRole stops requests whose identity does not pass g. It must run
// after Authenticate.
func RequireRole(g access.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if id == nil {
			unauthenticated(c)
			return
		}
		if err := access.Authorize(id, g); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message":  "You do not have permission to access this page.",
				"redirect": "/",
			})
			return
		}
		c.Next()
	}
}
