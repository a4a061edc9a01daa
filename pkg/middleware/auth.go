package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// SessionUserID is the session key holding the authenticated user id.
	SessionUserID = "user_id"
	// CtxUserID is the gin context key set by AuthRequired.
	CtxUserID = "user_id"
)

// AuthRequired guards endpoints behind the session cookie. The user id
// is copied into the request context so handlers and the pipeline take
// identity explicitly instead of reading ambient session state.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		v := sess.Get(SessionUserID)
		uid, ok := v.(uint)
		if !ok || uid == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		c.Set(CtxUserID, uid)
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired.
func UserID(c *gin.Context) uint {
	v, _ := c.Get(CtxUserID)
	uid, _ := v.(uint)
	return uid
}
