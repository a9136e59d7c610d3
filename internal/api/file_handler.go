package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avern/runyard/internal/auth"
	"github.com/avern/runyard/internal/store"
	"github.com/avern/runyard/internal/vault"
)

// Upload stores a multipart file under the authenticated account.
func (h *Handler) Upload(c *gin.Context) {
	u := auth.FromContext(c)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	f, err := h.vault.Store(c.Request.Context(), u.ID, fh.Filename, src, fh.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_id":     f.ID,
		"filename":    f.OriginalName,
		"stored_name": f.StoredName,
	})
}

// Files lists the authenticated account's files.
func (h *Handler) Files(c *gin.Context) {
	u := auth.FromContext(c)

	files, err := h.vault.List(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}
	if files == nil {
		files = []store.File{}
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// Rename changes a file's display name. A file owned by someone else is
// reported as not found.
func (h *Handler) Rename(c *gin.Context) {
	u := auth.FromContext(c)

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	var body struct {
		Filename string `json:"filename"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename cannot be empty"})
		return
	}

	f, err := h.vault.Rename(c.Request.Context(), u.ID, fileID, body.Filename)
	if err != nil {
		switch {
		case errors.Is(err, vault.ErrEmptyName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Filename cannot be empty"})
		case errors.Is(err, vault.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rename failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"new_name": f.OriginalName})
}

// Download streams a file's blob to its owner.
func (h *Handler) Download(c *gin.Context) {
	u := auth.FromContext(c)

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	f, rc, err := h.vault.Fetch(c.Request.Context(), u.ID, fileID)
	if err != nil {
		switch {
		case errors.Is(err, vault.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		case errors.Is(err, vault.ErrBlobMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		}
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, map[string]string{
		"Content-Disposition": `attachment; filename="` + f.OriginalName + `"`,
	})
}
