package middleware

import (
	"net/http"

	"dimple/models"

	"github.com/gin-gonic/gin"
)

const actorContextKey = "actor"

// ActorMiddleware reads the authenticated identity injected by the upstream
// auth layer. The gateway terminates authentication; this service trusts the
// headers it forwards.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Actor-ID")
		role := c.GetHeader("X-Actor-Role")

		switch role {
		case models.RoleClient, models.RoleMassager, models.RoleAdmin:
		default:
			role = ""
		}

		if id == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing or invalid actor identity",
			})
			return
		}

		c.Set(actorContextKey, models.Actor{ID: id, Role: role})
		c.Next()
	}
}

// GetActor returns the request's authenticated actor.
func GetActor(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}

// RequireRole gates a route group to one role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient role for this operation",
			})
			return
		}
		c.Next()
	}
}
