// Package model defines the data structures used throughout the application.
package model

import "time"

// Link is a saved web link enriched with page metadata.
//
// A link belongs to exactly one user (UserID) and is immutable after
// creation — there is no edit operation, only create and delete.
// Duplicate URLs are allowed; users may save the same page twice.
//
// JSON field names follow the persisted column names so that API
// responses and stored rows stay interchangeable.
type Link struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Favicon     string    `json:"favicon"`
	SiteName    string    `json:"site_name"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}
