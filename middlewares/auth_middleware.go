package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/utils"
)

// Key context yang diisi oleh middleware auth.
const (
	ContextKantinID = "kantinID"
	ContextRole     = "role"
	ContextEmail    = "email"
	ContextSubject  = "subject"
)

// TokenVerifier dipenuhi oleh services.AuthService.
type TokenVerifier interface {
	Verify(token string) (*utils.CustomClaims, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, verifier, bearerToken(c))
	}
}

// bearerToken mengambil token dari header Authorization.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func authenticate(c *gin.Context, verifier TokenVerifier, token string) {
	if verifyToken(c, verifier, token) {
		c.Next()
	}
}

// verifyToken mengisi context dari claims, atau abort bila token ditolak.
func verifyToken(c *gin.Context, verifier TokenVerifier, token string) bool {
	claims, err := verifier.Verify(token)
	if err != nil {
		utils.AbortWithError(c, services.StatusCode(err), err)
		return false
	}

	c.Set(ContextKantinID, claims.KantinID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextSubject, claims.Subject)
	return true
}

// KantinID mengembalikan id kantin dari token yang sudah diverifikasi.
func KantinID(c *gin.Context) string {
	return c.GetString(ContextKantinID)
}
