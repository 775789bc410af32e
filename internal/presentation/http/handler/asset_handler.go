package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/response"
	"github.com/sangkips/quotation-engine/pkg/apperror"
)

const defaultUploadMaxSize = 10 << 20

var allowedAssetTypes = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".ttf":  true,
	".otf":  true,
	".pdf":  true,
}

// AssetHandler uploads logos, seals, signatures, photos and fonts to file
// storage.
type AssetHandler struct {
	storage repository.FileStorage
	maxSize int64
}

func NewAssetHandler(storage repository.FileStorage, maxSize int64) *AssetHandler {
	if maxSize <= 0 {
		maxSize = defaultUploadMaxSize
	}
	return &AssetHandler{storage: storage, maxSize: maxSize}
}

// Upload stores the multipart field "file" and returns its reference.
// @Summary Upload Asset
// @Tags assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Asset file"
// @Success 201 {object} response.APIResponse
// @Router /assets [post]
func (h *AssetHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File is required")
		return
	}
	if fileHeader.Size > h.maxSize {
		response.ErrorWithCode(c, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedAssetTypes[ext] {
		response.BadRequest(c, "Unsupported file type "+ext)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Failed to read file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	stored, err := h.storage.Upload(c.Request.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusServiceUnavailable, "File storage is unavailable"))
		return
	}
	response.Created(c, "File uploaded successfully", stored)
}
