package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/middlewares"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/utils"
)

type MenuController struct {
	menus *services.MenuService
}

func NewMenuController(menus *services.MenuService) *MenuController {
	return &MenuController{menus: menus}
}

// GetKantinMenus: menu publik sebuah kantin
func (mc *MenuController) GetKantinMenus(c *gin.Context) {
	menus, err := mc.menus.ListPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", menus)
}

func (mc *MenuController) GetMyMenus(c *gin.Context) {
	menus, err := mc.menus.ListForOwner(c.Request.Context(), middlewares.KantinID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", menus)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req services.MenuInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	menu, err := mc.menus.Create(c.Request.Context(), middlewares.KantinID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu berhasil ditambahkan", menu)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var req services.MenuInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	menu, err := mc.menus.Update(c.Request.Context(), middlewares.KantinID(c), c.Param("menuId"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu berhasil diupdate", menu)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	if err := mc.menus.Delete(c.Request.Context(), middlewares.KantinID(c), c.Param("menuId")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu berhasil dihapus", nil)
}
