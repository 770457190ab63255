package models

import "time"

// Page, Row and Tile make up the customizable home page. Rows are placed on
// pages through PageRow and tiles on rows through RowTile.
type Page struct {
	ID        int64  `json:"page_id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"page_name"`
	Index     int64  `json:"index"`
	IsDefault bool   `json:"default"`
}

type Row struct {
	ID     int64  `json:"row_id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"row_name"`
	Type   int64  `json:"row_type"`
	Index  int64  `json:"row_index"`
}

type Tile struct {
	ID        int64   `json:"tile_id"`
	UserID    int64   `json:"user_id"`
	Name      string  `json:"name"`
	Hyperlink *string `json:"hyperlink"`
	OnClick   *string `json:"onclick"`
	Icon      string  `json:"icon"`
	Color     string  `json:"color"`
}

// PlacedTile is a tile together with its placement on a row.
type PlacedTile struct {
	Tile
	PlacementID int64 `json:"id"`
	RowID       int64 `json:"row_id"`
	TileIndex   int64 `json:"tile_index"`
}

type RowView struct {
	Row
	Tiles []PlacedTile `json:"tiles"`
}

type PageView struct {
	Page
	Rows []RowView `json:"rows"`
}

// Transition records a click on a tile or link of the home page.
type Transition struct {
	ID        int64
	UserID    int64
	TileID    *int64
	Hyperlink string
	CreatedAt time.Time
}
