package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/gin-gonic/gin"
)

type positionRequest struct {
	Paragraph *int `json:"paragraph" binding:"required"`
}

// importBookRequest imports from URL when it is set, otherwise Text is
// stored under Name.
type importBookRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (s *Server) ListBooks(c *gin.Context) {
	books, err := s.progress.ListBooks(c.Request.Context(), userName(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (s *Server) GetBook(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	book, err := s.progress.Book(c.Request.Context(), userName(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// LastOpenedBook answers 204 when no book has been opened yet.
func (s *Server) LastOpenedBook(c *gin.Context) {
	book, err := s.progress.LastOpened(c.Request.Context(), userName(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if book == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (s *Server) BookBounds(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	b, err := s.progress.Bounds(c.Request.Context(), userName(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) SavePosition(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.progress.SavePosition(c.Request.Context(), userName(c), id, *req.Paragraph); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetParagraph(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	n, err := strconv.Atoi(c.Param("paragraph"))
	if err != nil {
		badRequest(c, err)
		return
	}
	sentences, err := s.progress.Paragraph(c.Request.Context(), userName(c), id, n)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sentences)
}

func (s *Server) ImportBook(c *gin.Context) {
	var req importBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var (
		book *models.Book
		err  error
	)
	switch url := strings.TrimSpace(req.URL); {
	case url != "":
		book, err = s.books.ImportURL(c.Request.Context(), userName(c), url)
	case req.Text != "":
		book, err = s.books.ImportText(c.Request.Context(), userName(c), req.Name, req.Text)
	default:
		badRequest(c, errors.New("either url or text is required"))
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}
