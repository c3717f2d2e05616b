package model

import "time"

// User represents a registered account.
//
// Two sign-in paths populate a user: email/password registration
// (Email + PasswordHash) and GitHub OAuth (GitHubID + Login +
// AvatarURL). A user created via OAuth has no password hash, and a
// password user has GitHubID zero. The internal string ID (xid) is the
// only identifier the rest of the system ever uses.
//
// PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"githubId,omitempty"`
	Login        string    `json:"login,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
