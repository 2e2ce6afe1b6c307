package users

import "github.com/gin-gonic/gin"

const actorKey = "actor"

// SetActor stores the authenticated user on the request context.
func SetActor(c *gin.Context, user User) {
	c.Set(actorKey, user)
	c.Set("userId", user.ID)
}

// ActorFromContext fetches the authenticated user set by the auth middleware.
func ActorFromContext(c *gin.Context) (User, bool) {
	if c == nil {
		return User{}, false
	}
	val, ok := c.Get(actorKey)
	if !ok {
		return User{}, false
	}
	user, ok := val.(User)
	return user, ok
}
