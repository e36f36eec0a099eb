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

// UserStore is the part of the store the user routes need.
type UserStore interface {
	GetUser(id uint8) (model.User, error)
	ListUsers() map[uint8]model.User
	CreateUser(user model.User) (model.User, error)
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	store     UserStore
	logger    *slog.Logger
	metrics   metrics.Recorder
	publisher events.Publisher
}

// NewUserHandler creates a new UserHandler.
// A nil recorder or publisher is replaced by a no-op.
func NewUserHandler(s UserStore, logger *slog.Logger, recorder metrics.Recorder, publisher events.Publisher) *UserHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if publisher == nil {
		publisher = events.NewNoop()
	}
	return &UserHandler{
		store:     s,
		logger:    logger,
		metrics:   recorder,
		publisher: publisher,
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w, err)
		return
	}

	user, err := h.store.CreateUser(req.ToModel())
	if err != nil {
		handleStoreError(w, h.logger, h.metrics, err)
		return
	}
	h.metrics.IncUserCreated()

	requestID := middleware.GetRequestID(r.Context())
	h.logger.Info("user_created",
		"request_id", requestID,
		"user_id", user.ID,
	)

	if event, err := events.NewUserCreated(user, requestID, time.Now()); err == nil {
		h.publisher.PublishAsync(event)
	} else {
		h.logger.Warn("failed to build user event", "user_id", user.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, user)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeInvalidID(w)
		return
	}

	user, err := h.store.GetUser(id)
	if err != nil {
		handleStoreError(w, h.logger, h.metrics, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.UserListResponse(h.store.ListUsers()))
}
