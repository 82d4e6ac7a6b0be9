package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vaultconnect/internal/domain"
)

type FileResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	CreatedAt   string `json:"created_at"`
	DownloadURL string `json:"download_url,omitempty"`
}

func (h *Handler) uploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer src.Close()

	file, err := h.files.Upload(
		c.Request.Context(),
		currentUserID(c),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fileToResponse(*file, ""))
}

func (h *Handler) listFiles(c *gin.Context) {
	files, err := h.files.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]FileResponse, len(files))
	for i := range files {
		resp[i] = fileToResponse(files[i], "")
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getFile(c *gin.Context) {
	file, url, err := h.files.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fileToResponse(*file, url))
}

func (h *Handler) deleteFile(c *gin.Context) {
	if err := h.files.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func fileToResponse(file domain.File, downloadURL string) FileResponse {
	return FileResponse{
		ID:          file.ID,
		Filename:    file.Filename,
		Size:        file.Size,
		ContentType: file.ContentType,
		CreatedAt:   file.CreatedAt.Format(time.RFC3339),
		DownloadURL: downloadURL,
	}
}
