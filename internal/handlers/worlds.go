package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/storage"
)

// WorldSummary is one entry of the world list.
type WorldSummary struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
}

type WorldHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewWorldHandler(storage storage.Storage, logger *slog.Logger) *WorldHandler {
	return &WorldHandler{storage: storage, logger: logger}
}

// Register adds GET /v1/worlds and GET /v1/worlds/{file}.
func (h *WorldHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/worlds", h.handleList)
	mux.HandleFunc("GET /v1/worlds/{file}", h.handleGet)
}

func (h *WorldHandler) handleList(w http.ResponseWriter, r *http.Request) {
	worlds, err := h.storage.ListWorlds(r.Context())
	if err != nil {
		h.logger.Error("Failed to list worlds", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list worlds")
		return
	}
	list := make([]WorldSummary, 0, len(worlds))
	for name, file := range worlds {
		list = append(list, WorldSummary{Name: name, Filename: file})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	writeJSON(w, h.logger, http.StatusOK, list)
}

func (h *WorldHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if strings.Contains(file, "..") {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid world filename")
		return
	}
	world, err := h.storage.GetWorld(r.Context(), file)
	if err != nil {
		if errors.Is(err, storage.ErrWorldNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "World not found")
			return
		}
		h.logger.Error("Failed to read world", "file", file, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read world")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, world)
}
