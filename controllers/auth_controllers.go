package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/middlewares"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthController struct {
	auth  *services.AuthService
	oauth *oauth2.Config
}

// NewAuthController membuat controller auth. clientID dan redirectURL
// dipakai frontend untuk meminta access token Google Drive.
func NewAuthController(auth *services.AuthService, clientID, redirectURL string) *AuthController {
	return &AuthController{
		auth: auth,
		oauth: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURL,
			Scopes:      []string{services.DriveScope},
			Endpoint:    google.Endpoint,
		},
	}
}

type kantinLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type superAdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ac *AuthController) KantinLogin(c *gin.Context) {
	var req kantinLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	result, err := ac.auth.KantinLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Kantin,
		"token":   result.Token,
	})
}

func (ac *AuthController) SuperAdminLogin(c *gin.Context) {
	var req superAdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	session, token, err := ac.auth.SuperAdminLogin(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session,
		"token":   token,
	})
}

// Me mengembalikan akun kantin pemilik token.
func (ac *AuthController) Me(c *gin.Context) {
	kantin, err := ac.auth.Me(c.Request.Context(), middlewares.KantinID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", kantin)
}

// GoogleConfig mengembalikan konfigurasi OAuth untuk upload ke Drive.
func (ac *AuthController) GoogleConfig(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "", gin.H{
		"clientId":    ac.oauth.ClientID,
		"redirectUrl": ac.oauth.RedirectURL,
		"scope":       ac.oauth.Scopes[0],
		"authUrl":     ac.oauth.Endpoint.AuthURL,
		"configured":  ac.oauth.ClientID != "",
	})
}
