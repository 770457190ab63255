package models

import "time"

// Icon is the metadata of an uploaded image; the bytes live in object storage.
type Icon struct {
	ID          int64
	Filename    string
	ContentType string
	StorageKey  string
	CreatedAt   time.Time
}

// IconBlob is the content of an icon as served to clients.
type IconBlob struct {
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}
