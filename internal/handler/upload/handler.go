package upload

import (
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swasthya/medrec-api/internal/handler"
	"github.com/swasthya/medrec-api/internal/service/upload"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type Handler struct {
	service   upload.UploadService
	uploadDir string
}

func NewHandler(service upload.UploadService, uploadDir string) *Handler {
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &Handler{service: service, uploadDir: uploadDir}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cloudinary := r.Group("/cloudinary")
	{
		cloudinary.POST("/photo", h.UploadPhoto)
		cloudinary.POST("/doc", h.UploadDocument)
		cloudinary.DELETE("/asset", h.DeleteAsset)
	}
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	h.uploadFile(c, "photo", upload.KindPhoto)
}

func (h *Handler) UploadDocument(c *gin.Context) {
	h.uploadFile(c, "doc", upload.KindDocument)
}

// uploadFile spools the multipart file to disk and hands it to the media-host
// proxy, which removes the temp file when done.
func (h *Handler) uploadFile(c *gin.Context, field string, kind upload.Kind) {
	file, err := c.FormFile(field)
	if err != nil {
		handler.Error(c, errors.Validation(fmt.Sprintf("a %q file must be attached", field)))
		return
	}

	localPath := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		handler.Error(c, errors.Internal(fmt.Errorf("failed to store upload: %w", err)))
		return
	}

	result, err := h.service.Upload(c.Request.Context(), localPath, kind)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "File uploaded successfully", result)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	var req struct {
		PublicID     string `json:"public_id" binding:"required"`
		ResourceType string `json:"resource_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, errors.Validation("public_id is required"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), req.PublicID, req.ResourceType); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, "Asset deleted successfully", nil)
}
