// Package models defines server-side entities persisted in the database and
// the read-only view types assembled from query results.
package models

import "time"

// User owns every other entity by reference.
type User struct {
	ID           int64
	UUID         string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
