package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tactache/tactache-api/internal/constants"
	apierrors "github.com/tactache/tactache-api/internal/errors"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/policy"
)

// RequireAuth checks if the user is authenticated via session and
// exposes the acting user to handlers. Each request also gets a fresh
// ownership memo.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := toUint64(session.Get(constants.ContextKeyUserID))
		if !ok || userID == 0 {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		role, _ := session.Get(constants.ContextKeyUserRole).(string)
		actor := policy.Actor{ID: userID, Role: models.Role(role)}
		if !actor.Role.Valid() {
			actor.Role = models.RoleCollaborator
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyActor, actor)
		c.Request = c.Request.WithContext(policy.WithMemo(c.Request.Context()))
		c.Next()
	}
}

// GetActor retrieves the acting user from context
func GetActor(c *gin.Context) (policy.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return policy.Actor{}, false
	}
	actor, ok := value.(policy.Actor)
	return actor, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
