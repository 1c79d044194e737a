package post

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type Uploader interface {
	Upload(ctx context.Context, body io.Reader, filename, contentType, folder string) (string, error)
}

var mediaExtensions = map[string]MediaType{
	".jpg": MediaImage, ".jpeg": MediaImage, ".png": MediaImage,
	".gif": MediaImage, ".webp": MediaImage, ".heic": MediaImage,
	".mp4": MediaVideo, ".mov": MediaVideo, ".avi": MediaVideo, ".webm": MediaVideo,
}

// MediaTypeForFile infers the media kind from the file extension.
func MediaTypeForFile(filename string) (MediaType, bool) {
	mt, ok := mediaExtensions[strings.ToLower(filepath.Ext(filename))]
	return mt, ok
}

type MediaHandler struct {
	uploader Uploader
}

func NewMediaHandler(uploader Uploader) *MediaHandler {
	return &MediaHandler{uploader: uploader}
}

// UploadMedia POST /api/media
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.RespondError(c, apperr.Wrap(apperr.KindValidation, "No media provided", err), "No media provided", "")
		return
	}
	defer file.Close()

	mediaType, ok := MediaTypeForFile(header.Filename)
	if !ok {
		utils.RespondError(c, apperr.Validation("Invalid file extension"), "Invalid file extension", header.Filename)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := fmt.Sprintf("media_%s%s", uuid.New().String(), ext)
	contentType := header.Header.Get("Content-Type")

	url, err := h.uploader.Upload(c.Request.Context(), file, filename, contentType, "posts")
	if err != nil {
		utils.RespondError(c, err, "Media upload error", filename)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mediaUrl": url, "mediaType": mediaType})
	logs.LogJSON("INFO", "Media uploaded successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  url,
	})
}
