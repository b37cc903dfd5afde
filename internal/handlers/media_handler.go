package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portico/backend/internal/services"
	"github.com/portico/backend/internal/storage"
)

type MediaHandler struct {
	uploadService *services.UploadService
}

func NewMediaHandler(uploadService *services.UploadService) *MediaHandler {
	return &MediaHandler{uploadService: uploadService}
}

// UploadAsset handles a single file upload for an owning content record.
// POST /admin/assets/upload
// Multipart form: file (required), owner_kind, owner_id, profile (optional),
// thumbnail=true to derive a thumbnail for images.
func (h *MediaHandler) UploadAsset(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	asset, err := h.uploadService.Ingest(c.Request.Context(), services.UploadInput{
		Data:              data,
		ContentType:       header.Header.Get("Content-Type"),
		Filename:          header.Filename,
		OwnerKind:         c.PostForm("owner_kind"),
		OwnerID:           c.PostForm("owner_id"),
		Profile:           c.PostForm("profile"),
		GenerateThumbnail: c.PostForm("thumbnail") == "true",
	})
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, services.ErrTypeNotAllowed):
			status = http.StatusUnsupportedMediaType
		case errors.Is(err, services.ErrSizeExceeded):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, services.ErrDuplicateContent):
			status = http.StatusConflict
		default:
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, asset)
}

// DeleteAsset removes an asset record and frees the backend object.
// DELETE /admin/assets/:id
func (h *MediaHandler) DeleteAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	if err := h.uploadService.Remove(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetAsset returns a single asset.
// GET /admin/assets/:id
func (h *MediaHandler) GetAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}
	asset, err := h.uploadService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	c.JSON(http.StatusOK, asset)
}

// ServeLocalFile serves a stored object straight from the local backend's
// upload root. Only mounted when the local backend is active; on S3 the public
// URLs point at the endpoint instead.
// GET {PublicUploadBaseURL}/:category/:key
func ServeLocalFile(local *storage.LocalBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := storage.ParseCategory(c.Param("category"))
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		key := c.Param("key")
		if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
			c.Status(http.StatusNotFound)
			return
		}
		exists, err := local.Exists(c.Request.Context(), key, category)
		if err != nil || !exists {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(local.AbsolutePath(key, category))
	}
}

// ListAssets returns assets newest-first with pagination.
// GET /admin/assets?limit=&offset=
func (h *MediaHandler) ListAssets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	assets, total, err := h.uploadService.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assets": assets,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
