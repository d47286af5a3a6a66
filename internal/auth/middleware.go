package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const teacherIDKey = "teacher_id"

// TeacherAuth enforces bearer JWT tokens signed with HS256 and puts the
// acting teacher's id on the request context. The id is threaded
// explicitly from here; nothing holds a process-wide current session.
func TeacherAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		id, err := claims.TeacherID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(teacherIDKey, id)
		c.Next()
	}
}

// TeacherID returns the acting teacher's id set by TeacherAuth.
func TeacherID(c *gin.Context) int64 {
	id, _ := c.Get(teacherIDKey)
	v, _ := id.(int64)
	return v
}
