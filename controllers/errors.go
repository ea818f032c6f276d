package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/utils"
)

var errInvalidBody = errors.New("Format request tidak valid")

// respondServiceError memetakan error layanan ke status HTTP.
func respondServiceError(c *gin.Context, err error) {
	status := services.StatusCode(err)
	if status >= http.StatusInternalServerError {
		utils.ErrorLogger.WithField("path", c.FullPath()).Errorf("request gagal: %v", err)
	}
	utils.RespondError(c, status, err)
}
