package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type transitionRequest struct {
	TileID    *int64 `json:"tile_id"`
	Hyperlink string `json:"hyperlink"`
}

func (s *Server) StartPage(c *gin.Context) {
	page, err := s.layout.StartPage(c.Request.Context(), userName(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) RecordTransition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.layout.RecordTransition(c.Request.Context(), userName(c), req.TileID, req.Hyperlink); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
