package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/auth"
	"github.com/sakif/link-collector/internal/model"
	"github.com/sakif/link-collector/internal/service"
)

// LinkHandler serves the saved-link endpoints. All of them run behind
// RequireAuth, so a user ID is always present in the context.
type LinkHandler struct {
	links  *service.LinkService
	logger *slog.Logger
}

// NewLinkHandler creates a LinkHandler.
func NewLinkHandler(links *service.LinkService, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{links: links, logger: logger}
}

// HandleList returns the caller's saved links, newest first.
//
// GET /links
func (h *LinkHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	links, err := h.links.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing links failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	if links == nil {
		links = []model.Link{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"links": links})
}

// HandleCreate saves a new link for the caller.
//
// POST /links
func (h *LinkHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var input service.CreateLinkInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	link, err := h.links.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"link": link})
}

// HandleDelete removes one of the caller's links. The id travels in
// the query string. Deleting a link that is already gone succeeds; the
// end state is the same either way.
//
// DELETE /links?id={id}
func (h *LinkHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	id := r.URL.Query().Get("id")

	err := h.links.Delete(r.Context(), userID, id)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "link deleted"})
}
