package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// RequireRole restricts a route to the listed roles. Admins pass everywhere.
// Must run after AuthRequired.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(ctx *gin.Context) {
		v, ok := ctx.Get(ContextRoleKey)
		if !ok {
			utils.Error(ctx, http.StatusForbidden, 40301, "role missing from context")
			ctx.Abort()
			return
		}
		role, _ := v.(string)
		if role != models.RoleAdmin && !allowed[role] {
			utils.Error(ctx, http.StatusForbidden, 40302, "insufficient permissions")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
