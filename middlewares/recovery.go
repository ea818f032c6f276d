package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/utils"
)

// Recovery mengubah panic menjadi response error standar.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.ErrorLogger.WithField("path", c.Request.URL.Path).Errorf("panic: %v", recovered)
		utils.AbortWithError(c, http.StatusInternalServerError, errors.New("Terjadi kesalahan pada server"))
	})
}
