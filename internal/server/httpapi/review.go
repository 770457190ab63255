package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/gin-gonic/gin"
)

type nextItemResponse struct {
	Item     models.Reviewable `json:"item"`
	Reviewed int               `json:"reviewed"`
}

type statusRequest struct {
	Ready *int `json:"ready" binding:"required"`
}

func itemKind(c *gin.Context) (models.ItemKind, bool) {
	kind, err := models.ParseItemKind(c.Param("kind"))
	if err != nil {
		badRequest(c, err)
		return "", false
	}
	return kind, true
}

// NextItem marks the previous item (query "previous") as viewed and
// returns the next unlearned one along with the recent review count. The
// item is null once everything is learned.
func (s *Server) NextItem(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	var previous int64
	if raw := c.Query("previous"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			badRequest(c, fmt.Errorf("invalid previous %q", raw))
			return
		}
		previous = v
	}

	ctx := c.Request.Context()
	item, err := s.review.Next(ctx, kind, userName(c), previous)
	if err != nil {
		s.respondError(c, err)
		return
	}
	n, err := s.review.CountReviewedInWindow(ctx, kind, userName(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nextItemResponse{Item: item, Reviewed: n})
}

func (s *Server) ReviewedCount(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	n, err := s.review.CountReviewedInWindow(c.Request.Context(), kind, userName(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (s *Server) SetStatus(c *gin.Context) {
	kind, ok := itemKind(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		badRequest(c, err)
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.review.SetStatus(c.Request.Context(), kind, userName(c), id, *req.Ready); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
