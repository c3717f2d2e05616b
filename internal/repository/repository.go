// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage provides the concrete
// implementation; tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/link-collector/internal/model"
)

// LinkRepository owns persisted link records. Every operation is
// scoped to the owning user: a link is never visible to, or deletable
// by, anyone but its owner.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	// ListByOwner returns the owner's links, newest created_at first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Link, error)
	// ListIDsByOwner returns just the ids of the owner's current links.
	// The sync engine uses this to rebuild collection membership.
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	// Delete removes the link matching both id and ownerID. A miss on
	// either returns ErrNotFound — deleting someone else's link is
	// indistinguishable from deleting a nonexistent one.
	Delete(ctx context.Context, ownerID, id string) error
}

// CollectionRepository owns collections and their membership rows.
type CollectionRepository interface {
	// CreateCollection inserts a collection. Uniqueness violations come
	// back as apperror.ErrConflict with Field naming the constrained
	// column ("user_id" or "share_id").
	CreateCollection(ctx context.Context, collection *model.Collection) error
	GetCollectionByOwner(ctx context.Context, ownerID string) (*model.Collection, error)
	GetCollectionByShareID(ctx context.Context, shareID string) (*model.Collection, error)
	// ReplaceMemberships atomically swaps the collection's membership
	// rows for exactly the given link ids.
	ReplaceMemberships(ctx context.Context, collectionID string, linkIDs []string) error
	// ListCollectionLinks returns the links currently joined to the
	// collection.
	ListCollectionLinks(ctx context.Context, collectionID string) ([]model.Link, error)
}

// UserRepository owns user accounts for both sign-in paths.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertGitHubUser inserts or refreshes a user keyed by GitHub ID.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}
