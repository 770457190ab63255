package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
)

// LayoutService serves the tile-based home page.
type LayoutService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewLayoutService(db *sql.DB, m repomanager.RepositoryManager) *LayoutService {
	return &LayoutService{db: db, repomanager: m, now: time.Now}
}

// StartPage assembles the default page with its rows and their tiles, each
// in placement order.
func (s *LayoutService) StartPage(ctx context.Context, userName string) (*models.PageView, error) {
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return nil, err
	}
	repo := s.repomanager.Layout(s.db)

	page, err := repo.DefaultPage(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := repo.PageRows(ctx, userID, page.ID)
	if err != nil {
		return nil, err
	}

	view := &models.PageView{Page: *page, Rows: make([]models.RowView, 0, len(rows))}
	for _, row := range rows {
		tiles, err := repo.RowTiles(ctx, userID, row.ID)
		if err != nil {
			return nil, err
		}
		view.Rows = append(view.Rows, models.RowView{Row: row, Tiles: tiles})
	}
	return view, nil
}

// RecordTransition logs a click on a tile or a plain link.
func (s *LayoutService) RecordTransition(ctx context.Context, userName string, tileID *int64, hyperlink string) error {
	hyperlink = strings.TrimSpace(hyperlink)
	if tileID == nil && hyperlink == "" {
		return common.ErrorValidation
	}
	userID, err := resolveUserID(ctx, s.repomanager.Users(s.db), userName)
	if err != nil {
		return err
	}
	return s.repomanager.Layout(s.db).AddTransition(ctx, &models.Transition{
		UserID:    userID,
		TileID:    tileID,
		Hyperlink: hyperlink,
		CreatedAt: s.now(),
	})
}
