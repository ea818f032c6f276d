package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/middlewares"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/utils"
)

type KantinController struct {
	kantins *services.KantinService
}

func NewKantinController(kantins *services.KantinService) *KantinController {
	return &KantinController{kantins: kantins}
}

// ListKantin: daftar kantin untuk halaman publik
func (kc *KantinController) ListKantin(c *gin.Context) {
	kantins, err := kc.kantins.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", kantins)
}

func (kc *KantinController) GetKantin(c *gin.Context) {
	kantin, err := kc.kantins.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", kantin)
}

func (kc *KantinController) UpdateProfile(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	kantin, err := kc.kantins.UpdateProfile(c.Request.Context(), middlewares.KantinID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profil berhasil diupdate", kantin)
}

func (kc *KantinController) UpdateStatus(c *gin.Context) {
	var req struct {
		IsOpen *bool `json:"isOpen"`
	}
	// isOpen selain boolean ditolak oleh service dengan pesan yang sama
	if err := c.ShouldBindJSON(&req); err != nil {
		req.IsOpen = nil
	}

	kantin, err := kc.kantins.UpdateStatus(c.Request.Context(), middlewares.KantinID(c), req.IsOpen)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status kantin berhasil diupdate", kantin)
}
