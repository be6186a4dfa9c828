package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/storage"
)

type AvatarHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewAvatarHandler(storage storage.Storage, logger *slog.Logger) *AvatarHandler {
	return &AvatarHandler{storage: storage, logger: logger}
}

// Register adds GET /v1/avatars/{ref}. ref may be given with or without
// its "avatar:" prefix.
func (h *AvatarHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/avatars/{ref}", h.handleGet)
}

func (h *AvatarHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	if !strings.HasPrefix(ref, storage.AvatarRefPrefix) {
		ref = storage.AvatarRefPrefix + ref
	}
	data, contentType, err := h.storage.GetAvatar(r.Context(), ref)
	if err != nil {
		h.logger.Error("Failed to load avatar", "ref", ref, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load avatar")
		return
	}
	if data == nil {
		writeError(w, h.logger, http.StatusNotFound, "Avatar not found")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("Failed to write avatar", "ref", ref, "error", err)
	}
}
