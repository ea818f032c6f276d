package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/utils"
)

var (
	errFileRequired = errors.New("File harus diupload")
	errFileTooLarge = errors.New("Ukuran file maksimal 10MB")
	errNoDriveToken = errors.New("Access token Google Drive diperlukan")
)

type UploadController struct {
	uploader services.FileUploader
}

func NewUploadController(uploader services.FileUploader) *UploadController {
	return &UploadController{uploader: uploader}
}

// Upload menerima multipart "file" dan mengunggahnya ke Google Drive
// memakai access token milik pengguna.
func (uc *UploadController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadSize+(1<<20))

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.RespondError(c, http.StatusBadRequest, errFileTooLarge)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, errFileRequired)
		return
	}
	if header.Size > services.MaxUploadSize {
		utils.RespondError(c, http.StatusBadRequest, errFileTooLarge)
		return
	}

	token := strings.TrimSpace(c.PostForm("accessToken"))
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, errNoDriveToken)
		return
	}
	if _, err := services.ImageContentType(header.Filename); err != nil {
		respondServiceError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errFileRequired)
		return
	}
	defer file.Close()

	uploaded, err := uc.uploader.Upload(c.Request.Context(), token, header.Filename, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("File %s diupload ke Drive: %s", header.Filename, uploaded.FileID)
	utils.RespondJSON(c, http.StatusOK, "File berhasil diupload", uploaded)
}
