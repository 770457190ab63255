package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/server/services"
	"github.com/gin-gonic/gin"
)

const iconCacheControl = "public, max-age=86400"

type iconResponse struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadIcon stores the multipart "file" under its own name unless the
// form field "filename" overrides it.
func (s *Server) UploadIcon(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, services.MaxIconSize+1))
	if err != nil {
		s.respondError(c, err)
		return
	}

	name := c.PostForm("filename")
	if name == "" {
		name = fh.Filename
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	icon, err := s.icons.Upload(c.Request.Context(), name, contentType, data)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, iconResponse{
		ID:          icon.ID,
		Filename:    icon.Filename,
		ContentType: icon.ContentType,
		CreatedAt:   icon.CreatedAt,
	})
}

// GetIcon serves the icon bytes with caching headers and honours
// If-Modified-Since.
func (s *Server) GetIcon(c *gin.Context) {
	blob, err := s.icons.Get(c.Request.Context(), c.Param("filename"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	modified := blob.CreatedAt.UTC().Truncate(time.Second)
	c.Header("Cache-Control", iconCacheControl)
	c.Header("Last-Modified", modified.Format(http.TimeFormat))

	if since, err := http.ParseTime(c.GetHeader("If-Modified-Since")); err == nil && !modified.After(since) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
