// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stash/stash/internal/handler/dto"
)

// Greeting is the body served on GET /.
const Greeting = "Hello, World!"

var (
	errInvalidID    = errors.New("invalid id")
	errTrailingData = errors.New("unexpected data after JSON body")
)

// validator is implemented by request DTOs with required fields.
type validator interface {
	Validate() error
}

// Handler serves the routes that do not touch the store.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello returns a plain-text greeting.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Greeting))
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "resource not found",
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}

// parseID reads the {id} URL parameter as an unsigned 8-bit record ID.
func parseID(r *http.Request) (uint8, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, errInvalidID
	}
	id, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, errInvalidID
	}
	return uint8(id), nil
}

// decodeJSON decodes exactly one JSON value from the request body into dst
// and, when dst has required fields, validates them.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return errTrailingData
	}
	if v, ok := dst.(validator); ok {
		return v.Validate()
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
