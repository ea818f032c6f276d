package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/utils"
)

// AdminController dipakai super admin untuk mengelola akun kantin.
type AdminController struct {
	kantins *services.KantinService
}

func NewAdminController(kantins *services.KantinService) *AdminController {
	return &AdminController{kantins: kantins}
}

func (ac *AdminController) ListKantin(c *gin.Context) {
	kantins, err := ac.kantins.Fresh(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", models.PublicKantins(kantins))
}

func (ac *AdminController) CreateKantin(c *gin.Context) {
	var req services.KantinInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	kantin, err := ac.kantins.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Kantin berhasil dibuat", kantin)
}

func (ac *AdminController) UpdateKantin(c *gin.Context) {
	var req services.KantinInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	kantin, err := ac.kantins.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kantin berhasil diupdate", kantin)
}

func (ac *AdminController) DeleteKantin(c *gin.Context) {
	if err := ac.kantins.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kantin berhasil dihapus", nil)
}
