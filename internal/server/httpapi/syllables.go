package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/services"
	"github.com/gin-gonic/gin"
)

const maxWorkbookSize = 20 << 20

type syllableRequest struct {
	Word          string           `json:"word"`
	Transcription *string          `json:"transcription"`
	Translations  *string          `json:"translations"`
	ExamplesText  *string          `json:"examples"`
	Examples      []models.Example `json:"paragraphs"`
}

type inTextRequest struct {
	Text string `json:"text"`
}

func (s *Server) ListSyllables(c *gin.Context) {
	q := services.ListQuery{WordPart: c.Query("q")}
	var err error
	if q.Ready, err = queryInt(c, "ready"); err != nil {
		badRequest(c, err)
		return
	}
	for name, dst := range map[string]*int{"offset": &q.Offset, "limit": &q.Limit} {
		v, err := queryInt(c, name)
		if err != nil {
			badRequest(c, err)
			return
		}
		if v != nil {
			*dst = *v
		}
	}

	items, err := s.vocabulary.List(c.Request.Context(), userName(c), q)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) GetSyllable(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	item, err := s.vocabulary.Get(c.Request.Context(), userName(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) CreateSyllable(c *gin.Context) {
	s.saveSyllable(c, 0, http.StatusCreated)
}

func (s *Server) UpdateSyllable(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	s.saveSyllable(c, id, http.StatusOK)
}

func (s *Server) saveSyllable(c *gin.Context, id int64, status int) {
	var req syllableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := s.vocabulary.Save(c.Request.Context(), userName(c), &models.Syllable{
		ID:            id,
		Word:          req.Word,
		Transcription: req.Transcription,
		Translations:  req.Translations,
		ExamplesText:  req.ExamplesText,
		Examples:      req.Examples,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(status, item)
}

func (s *Server) SyllablesInText(c *gin.Context) {
	var req inTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	items, err := s.vocabulary.InText(c.Request.Context(), userName(c), req.Text)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ImportSyllables accepts a multipart "file" holding an xlsx workbook.
// Optional form fields "sheet" and "start_row" override the defaults.
func (s *Server) ImportSyllables(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	if fh.Size > maxWorkbookSize {
		badRequest(c, fmt.Errorf("workbook exceeds %d bytes", maxWorkbookSize))
		return
	}

	cfg := services.DefaultImportConfig()
	if sheet := c.PostForm("sheet"); sheet != "" {
		cfg.SheetName = sheet
	}
	if raw := c.PostForm("start_row"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, errors.New("start_row must be a positive number"))
			return
		}
		cfg.StartRow = n
	}

	f, err := fh.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer f.Close()

	res, err := s.importer.Import(c.Request.Context(), userName(c), io.LimitReader(f, maxWorkbookSize), cfg)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
