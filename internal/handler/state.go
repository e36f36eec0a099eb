package handler

import (
	"net/http"

	"github.com/stash/stash/internal/handler/dto"
	"github.com/stash/stash/internal/store"
)

// Snapshotter returns a consistent copy of the whole store.
type Snapshotter interface {
	Snapshot() store.State
}

// StateHandler exposes the full store contents.
type StateHandler struct {
	store Snapshotter
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(s Snapshotter) *StateHandler {
	return &StateHandler{store: s}
}

// Get handles GET /state.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()
	writeJSON(w, http.StatusOK, dto.StateResponse{
		Users: state.Users,
		Items: state.Items,
	})
}
