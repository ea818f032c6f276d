package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/utils"
)

const noStore = "no-store, no-cache, must-revalidate, proxy-revalidate, max-age=0"

// GoogleScriptController meneruskan request dari frontend ke Apps Script.
type GoogleScriptController struct {
	gateway *sheets.Client
}

func NewGoogleScriptController(gateway *sheets.Client) *GoogleScriptController {
	return &GoogleScriptController{gateway: gateway}
}

// Proxy menangani GET dan POST /api/google-script?sheet=&scriptUrl=
func (gc *GoogleScriptController) Proxy(c *gin.Context) {
	sheet := strings.TrimSpace(c.Query("sheet"))
	if sheet == "" {
		sheet = models.SheetKantin
	}
	scriptURL := c.Query("scriptUrl")

	var (
		resp *sheets.Response
		err  error
	)
	if c.Request.Method == http.MethodPost {
		body, readErr := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 10<<20))
		if readErr != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("Body request tidak dapat dibaca"))
			return
		}
		resp, err = gc.gateway.ForwardRaw(c.Request.Context(), scriptURL, sheet, body)
	} else {
		resp, err = gc.gateway.Fetch(c.Request.Context(), scriptURL, sheet)
	}

	if err != nil {
		utils.ErrorLogger.WithField("sheet", sheet).Errorf("Google Script proxy error: %v", err)
		utils.RespondError(c, proxyStatus(err), err)
		return
	}

	body := resp.Body
	if strings.EqualFold(sheet, models.SheetKantin) {
		if body, err = withoutPasswords(resp.Body); err != nil {
			utils.ErrorLogger.Errorf("Google Script proxy: gagal menghapus password: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	c.Header("Cache-Control", noStore)
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// withoutPasswords menghapus field password dari baris AkunKantin. Body
// lain diteruskan apa adanya.
func withoutPasswords(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}

	removed := false
	switch data := obj["data"].(type) {
	case []interface{}:
		for _, row := range data {
			if m, ok := row.(map[string]interface{}); ok && dropPassword(m) {
				removed = true
			}
		}
	case map[string]interface{}:
		removed = dropPassword(data)
	}
	if !removed {
		return body, nil
	}
	return json.Marshal(obj)
}

func dropPassword(row map[string]interface{}) bool {
	removed := false
	for k := range row {
		if strings.EqualFold(k, "password") {
			delete(row, k)
			removed = true
		}
	}
	return removed
}

func proxyStatus(err error) int {
	var statusErr *sheets.StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Code
	case errors.Is(err, sheets.ErrHostNotAllowed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
