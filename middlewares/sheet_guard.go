package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/models"
)

// ProtectSheetWrites mewajibkan token dengan salah satu role untuk POST
// proxy yang menulis ke sheet tertentu. Query sheet kosong berarti
// AkunKantin, sama seperti default proxy.
func ProtectSheetWrites(verifier TokenVerifier, sheet string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		target := strings.TrimSpace(c.DefaultQuery("sheet", models.SheetKantin))
		if target == "" {
			target = models.SheetKantin
		}
		if !strings.EqualFold(target, sheet) {
			c.Next()
			return
		}

		if !verifyToken(c, verifier, bearerToken(c)) || !hasRole(c, roles) {
			return
		}
		c.Next()
	}
}
