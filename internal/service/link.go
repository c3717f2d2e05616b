package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/category"
	"github.com/sakif/link-collector/internal/model"
	"github.com/sakif/link-collector/internal/repository"
)

// LinkService owns the saved-link operations. Every call is scoped to
// the authenticated owner.
type LinkService struct {
	links  repository.LinkRepository
	logger *slog.Logger
}

// NewLinkService creates a LinkService backed by the given repository.
func NewLinkService(links repository.LinkRepository, logger *slog.Logger) *LinkService {
	return &LinkService{links: links, logger: logger}
}

// CreateLinkInput carries the client-supplied fields for a new link.
// Everything except URL is optional; the enrichment step usually fills
// the rest in before the client submits. Field names match the
// fetch-meta response so its output can be posted back unchanged.
type CreateLinkInput struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Favicon     string `json:"favicon"`
	SiteName    string `json:"siteName"`
	Category    string `json:"category"`
}

// List returns the owner's saved links, newest first.
func (s *LinkService) List(ctx context.Context, ownerID string) ([]model.Link, error) {
	links, err := s.links.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service/link: listing links: %w", err)
	}
	return links, nil
}

// Create persists a new link for the owner. Missing metadata fields
// fall back to neutral defaults so a bare URL is always saveable.
func (s *LinkService) Create(ctx context.Context, ownerID string, input CreateLinkInput) (*model.Link, error) {
	input.URL = strings.TrimSpace(input.URL)
	if input.URL == "" {
		return nil, apperror.ValidationFailed("url", "url is required")
	}

	link := &model.Link{
		UserID:      ownerID,
		URL:         input.URL,
		Title:       input.Title,
		Description: input.Description,
		Favicon:     input.Favicon,
		SiteName:    input.SiteName,
		Category:    input.Category,
	}
	if link.Title == "" {
		link.Title = "Untitled"
	}
	if link.Category == "" {
		link.Category = category.General
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("service/link: creating link: %w", err)
	}

	s.logger.Info("link saved",
		slog.String("userID", ownerID),
		slog.String("linkID", link.ID),
		slog.String("category", link.Category),
	)

	return link, nil
}

// Delete removes the owner's link. Deleting a link that does not exist
// (or belongs to someone else) returns ErrNotFound; the handler treats
// that as a no-op.
func (s *LinkService) Delete(ctx context.Context, ownerID, id string) error {
	if id == "" {
		return apperror.ValidationFailed("id", "link id is required")
	}
	if err := s.links.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service/link: deleting link %s: %w", id, err)
	}

	s.logger.Info("link deleted",
		slog.String("userID", ownerID),
		slog.String("linkID", id),
	)
	return nil
}
