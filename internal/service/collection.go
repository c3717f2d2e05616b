package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/model"
	"github.com/sakif/link-collector/internal/repository"
)

// shareIDAttempts bounds the retry loop when a freshly generated share
// identifier collides with an existing one.
const shareIDAttempts = 3

// CollectionService owns the one-collection-per-user snapshot and its
// public share identifier.
type CollectionService struct {
	collections repository.CollectionRepository
	links       repository.LinkRepository
	logger      *slog.Logger
}

// NewCollectionService creates a CollectionService.
func NewCollectionService(
	collections repository.CollectionRepository,
	links repository.LinkRepository,
	logger *slog.Logger,
) *CollectionService {
	return &CollectionService{collections: collections, links: links, logger: logger}
}

// EnsureAndSync returns the owner's collection, creating it on first
// use, and rebuilds its membership to exactly the owner's current
// links. The share identifier is stable across resyncs.
func (s *CollectionService) EnsureAndSync(ctx context.Context, ownerID, name string) (*model.Collection, error) {
	collection, err := s.collections.GetCollectionByOwner(ctx, ownerID)
	if errors.Is(err, apperror.ErrNotFound) {
		collection, err = s.create(ctx, ownerID, name)
	}
	if err != nil {
		return nil, err
	}

	linkIDs, err := s.links.ListIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service/collection: listing link ids: %w", err)
	}
	if err := s.collections.ReplaceMemberships(ctx, collection.ID, linkIDs); err != nil {
		return nil, fmt.Errorf("service/collection: syncing membership: %w", err)
	}

	s.logger.Info("collection synced",
		slog.String("userID", ownerID),
		slog.String("shareID", collection.ShareID),
		slog.Int("links", len(linkIDs)),
	)

	return collection, nil
}

// GetByShareID resolves a public share identifier to its collection
// and links. No authentication involved; a share link works for
// anyone who has it.
func (s *CollectionService) GetByShareID(ctx context.Context, shareID string) (*model.Collection, error) {
	shareID = strings.TrimSpace(shareID)
	if shareID == "" {
		return nil, apperror.ValidationFailed("shareId", "shareId is required")
	}

	collection, err := s.collections.GetCollectionByShareID(ctx, shareID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("collection", shareID)
		}
		return nil, fmt.Errorf("service/collection: resolving share id: %w", err)
	}

	links, err := s.collections.ListCollectionLinks(ctx, collection.ID)
	if err != nil {
		return nil, fmt.Errorf("service/collection: listing shared links: %w", err)
	}

	// Drop any malformed rows rather than break the whole snapshot.
	collection.Links = make([]model.Link, 0, len(links))
	for _, l := range links {
		if l.ID == "" || l.URL == "" {
			continue
		}
		collection.Links = append(collection.Links, l)
	}

	return collection, nil
}

func (s *CollectionService) create(ctx context.Context, ownerID, name string) (*model.Collection, error) {
	if strings.TrimSpace(name) == "" {
		name = "My Collection"
	}

	for attempt := 0; attempt < shareIDAttempts; attempt++ {
		collection := &model.Collection{
			UserID:  ownerID,
			ShareID: newShareID(),
			Name:    name,
		}

		err := s.collections.CreateCollection(ctx, collection)
		if err == nil {
			s.logger.Info("collection created",
				slog.String("userID", ownerID),
				slog.String("shareID", collection.ShareID),
			)
			return collection, nil
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && errors.Is(err, apperror.ErrConflict) {
			switch appErr.Field {
			case "share_id":
				// Another collection holds this identifier; try a new one.
				continue
			case "user_id":
				// A concurrent request created the owner's collection
				// first. Use theirs.
				return s.collections.GetCollectionByOwner(ctx, ownerID)
			}
		}
		return nil, fmt.Errorf("service/collection: creating collection: %w", err)
	}

	return nil, fmt.Errorf("service/collection: could not find a free share id after %d attempts", shareIDAttempts)
}

// newShareID builds a short identifier from the first segments of two
// random UUIDs: 16 hex characters, URL-safe, hard to enumerate.
func newShareID() string {
	first := strings.SplitN(uuid.NewString(), "-", 2)[0]
	second := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return first + second
}
