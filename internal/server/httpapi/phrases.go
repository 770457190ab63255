package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/gin-gonic/gin"
)

type phraseRequest struct {
	Text        string `json:"phrase"`
	Translation string `json:"translation"`
}

func (s *Server) ListPhrases(c *gin.Context) {
	ready, err := queryInt(c, "ready")
	if err != nil {
		badRequest(c, err)
		return
	}
	items, err := s.phrases.List(c.Request.Context(), userName(c), ready)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) GetPhrase(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	p, err := s.phrases.Get(c.Request.Context(), userName(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) CreatePhrase(c *gin.Context) {
	s.savePhrase(c, 0, http.StatusCreated)
}

func (s *Server) UpdatePhrase(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	s.savePhrase(c, id, http.StatusOK)
}

func (s *Server) savePhrase(c *gin.Context, id int64, status int) {
	var req phraseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := s.phrases.Save(c.Request.Context(), userName(c), &models.Phrase{
		ID:          id,
		Text:        req.Text,
		Translation: req.Translation,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(status, p)
}
