package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/utils"
)

var (
	errNoToken      = errors.New("Token tidak ditemukan")
	errAccessDenied = errors.New("Akses ditolak")
)

// RequireRole harus dipasang setelah AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hasRole(c, roles) {
			c.Next()
		}
	}
}

func hasRole(c *gin.Context, roles []string) bool {
	role := c.GetString(ContextRole)
	if role == "" {
		utils.AbortWithError(c, http.StatusUnauthorized, errNoToken)
		return false
	}

	for _, r := range roles {
		if r == role {
			if role == utils.RoleKantin && KantinID(c) == "" {
				break
			}
			return true
		}
	}
	utils.InfoLogger.Printf("Akses ditolak untuk role %q pada %s", role, c.FullPath())
	utils.AbortWithError(c, http.StatusForbidden, errAccessDenied)
	return false
}
