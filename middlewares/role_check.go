package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

// RequireRoles gates a route to the listed roles. ADMIN always passes.
// Transition endpoints do NOT use this; their role check lives inside the
// lifecycle manager so it cannot be bypassed.
func RequireRoles(roles ...lifecycle.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, _ := roleValue.(string)
		if role == lifecycle.RoleAdmin.String() {
			c.Next()
			return
		}

		for _, allowed := range roles {
			if role == allowed.String() {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", rolesLabel(roles)))
		c.Abort()
	}
}

func rolesLabel(roles []lifecycle.Role) string {
	if len(roles) == 0 {
		return "admin"
	}
	label := ""
	for i, r := range roles {
		if i > 0 {
			label += "/"
		}
		label += r.String()
	}
	return label
}
