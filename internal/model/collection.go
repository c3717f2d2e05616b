package model

import "time"

// Collection is a user's single published view of their links.
//
// Each user has at most one collection, created lazily on the first
// share request. ShareID is a short opaque token that grants public
// read access; it is globally unique and never changes once assigned.
//
// Links is populated only on the public share read path; it is empty
// on the owner-facing create/reuse response.
type Collection struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ShareID   string    `json:"share_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Links     []Link    `json:"links,omitempty"`
}
