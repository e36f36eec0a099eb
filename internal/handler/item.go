package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/stash/stash/internal/events"
	"github.com/stash/stash/internal/handler/dto"
	"github.com/stash/stash/internal/metrics"
	"github.com/stash/stash/internal/middleware"
	"github.com/stash/stash/internal/model"
)

// ItemStore is the part of the store the item routes need.
type ItemStore interface {
	GetItem(id uint8) (model.Item, error)
	ListItems() map[uint8]model.Item
	CreateItem(item model.Item) (model.Item, error)
}

// ItemHandler handles HTTP requests for item operations.
type ItemHandler struct {
	store     ItemStore
	logger    *slog.Logger
	metrics   metrics.Recorder
	publisher events.Publisher
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(s ItemStore, logger *slog.Logger, recorder metrics.Recorder, publisher events.Publisher) *ItemHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if publisher == nil {
		publisher = events.NewNoop()
	}
	return &ItemHandler{
		store:     s,
		logger:    logger,
		metrics:   recorder,
		publisher: publisher,
	}
}

// Create handles POST /items.
// The owner in the body is stored as a copy; it need not exist in /users.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w, err)
		return
	}

	item, err := h.store.CreateItem(req.ToModel())
	if err != nil {
		handleStoreError(w, h.logger, h.metrics, err)
		return
	}
	h.metrics.IncItemCreated()

	requestID := middleware.GetRequestID(r.Context())
	h.logger.Info("item_created",
		"request_id", requestID,
		"item_id", item.ID,
		"owner_id", item.Owner.ID,
	)

	if event, err := events.NewItemCreated(item, requestID, time.Now()); err == nil {
		h.publisher.PublishAsync(event)
	} else {
		h.logger.Warn("failed to build item event", "item_id", item.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, item)
}

// Get handles GET /items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeInvalidID(w)
		return
	}

	item, err := h.store.GetItem(id)
	if err != nil {
		handleStoreError(w, h.logger, h.metrics, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// List handles GET /items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ItemListResponse(h.store.ListItems()))
}
