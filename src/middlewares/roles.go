package middlewares

import (
	"net/http"

	"boletera/src/types"

	"github.com/gin-gonic/gin"
)

// RequireRoles rejects the request with 403 unless the authenticated
// account holds one of the given roles. Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(ctx *gin.Context) {
		role := ctx.GetString("role")
		if !allowed[role] {
			appErr := types.NewAppError(types.CODE_UNAUTHORIZED, "")
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": appErr.Message,
				"code":  appErr.Code,
			})
			return
		}
	}
}
