package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware menerima token dari query ?token= karena browser
// tidak dapat mengirim header Authorization saat upgrade websocket.
func WebSocketAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			token = bearerToken(c)
		}
		authenticate(c, verifier, token)
	}
}
