package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/link-collector/internal/apperror"
	"github.com/sakif/link-collector/internal/metadata"
)

// MetadataHandler serves the enrichment endpoint clients call before
// saving a link.
type MetadataHandler struct {
	resolver *metadata.Resolver
	logger   *slog.Logger
}

// NewMetadataHandler creates a MetadataHandler.
func NewMetadataHandler(resolver *metadata.Resolver, logger *slog.Logger) *MetadataHandler {
	return &MetadataHandler{resolver: resolver, logger: logger}
}

// HandleFetch resolves a URL to its page metadata. Unreachable pages
// still yield a usable fallback record, so this endpoint only fails on
// bad input.
//
// POST /fetch-meta
func (h *MetadataHandler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}
	if input.URL == "" {
		writeError(w, apperror.ValidationFailed("url", "url is required"))
		return
	}

	md, err := h.resolver.Resolve(r.Context(), input.URL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, md)
}
