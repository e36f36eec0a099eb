package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/stash/stash/internal/metrics"
	"github.com/stash/stash/internal/store"
)

// handleStoreError maps store errors to HTTP responses.
func handleStoreError(w http.ResponseWriter, logger *slog.Logger, recorder metrics.Recorder, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		recorder.IncLookupMiss(metrics.ResourceUser)
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, store.ErrItemNotFound):
		recorder.IncLookupMiss(metrics.ResourceItem)
		writeError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found")
	case errors.Is(err, store.ErrUserExists):
		recorder.IncDuplicateRejected(metrics.ResourceUser)
		writeError(w, http.StatusConflict, "USER_EXISTS", "User with this id already exists")
	case errors.Is(err, store.ErrItemExists):
		recorder.IncDuplicateRejected(metrics.ResourceItem)
		writeError(w, http.StatusConflict, "ITEM_EXISTS", "Item with this id already exists")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeInvalidID rejects a malformed {id} path parameter.
func writeInvalidID(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "INVALID_ID", "ID must be an integer between 0 and 255")
}

// writeInvalidJSON rejects a body that does not match the expected shape.
func writeInvalidJSON(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
}
