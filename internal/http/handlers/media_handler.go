package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/forum-backend/internal/http/handlers/common"
	"github.com/ignatzorin/forum-backend/internal/service"
)

// MediaHandler предоставляет HTTP слой для загрузки аватаров.
type MediaHandler struct {
	media     *service.MediaService
	mediaRoot string
}

// NewMediaHandler создаёт хэндлер.
func NewMediaHandler(media *service.MediaService, mediaRoot string) *MediaHandler {
	return &MediaHandler{media: media, mediaRoot: mediaRoot}
}

// UploadAvatar обрабатывает POST /media/avatar (multipart/form-data, поле file).
func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "поле file обязательно")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()

	media, err := h.media.UploadAvatar(c.Request.Context(), userID, fileHeader.Filename, f)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

// GetFile обрабатывает GET /media/:id: отдаёт содержимое файла.
func (h *MediaHandler) GetFile(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	media, err := h.media.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Type", media.FileType)
	c.File(filepath.Join(h.mediaRoot, media.FilePath))
}

// Delete обрабатывает DELETE /media/:id.
func (h *MediaHandler) Delete(c *gin.Context) {
	userID, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.media.Delete(c.Request.Context(), id, userID, role); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "файл удалён"})
}
