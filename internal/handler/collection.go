package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/auth"
	"github.com/sakif/link-collector/internal/service"
)

// CollectionHandler serves the share-collection endpoints. Creating
// and syncing requires auth; reading a shared collection does not.
type CollectionHandler struct {
	collections *service.CollectionService
	logger      *slog.Logger
}

// NewCollectionHandler creates a CollectionHandler.
func NewCollectionHandler(collections *service.CollectionService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{collections: collections, logger: logger}
}

// HandleSync ensures the caller's collection exists and rebuilds its
// membership to mirror their current links. The body is optional; an
// empty or absent name falls back to the default.
//
// POST /collections
func (h *CollectionHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && err != io.EOF {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	collection, err := h.collections.EnsureAndSync(r.Context(), userID, input.Name)
	if err != nil {
		h.logger.Error("collection sync failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"collection": collection})
}

// HandleGetShared resolves a public share identifier. No auth; anyone
// holding the link can read the snapshot.
//
// GET /collections?shareId={shareId}
func (h *CollectionHandler) HandleGetShared(w http.ResponseWriter, r *http.Request) {
	shareID := r.URL.Query().Get("shareId")

	collection, err := h.collections.GetByShareID(r.Context(), shareID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"collection": collection})
}
