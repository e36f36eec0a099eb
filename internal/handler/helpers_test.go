package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/stash/stash/internal/events"
	"github.com/stash/stash/internal/metrics"
	"github.com/stash/stash/internal/store"
	"github.com/stash/stash/internal/testutil"
)

// capturePublisher records published events in memory.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) PublishAsync(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type testEnv struct {
	store     *store.Store
	recorder  *metrics.InMemoryRecorder
	publisher *capturePublisher
	router    http.Handler
}

func newTestEnv(t *testing.T, policy store.Policy) *testEnv {
	t.Helper()

	s := store.New(store.Options{Policy: policy})
	recorder := metrics.NewInMemory()
	publisher := &capturePublisher{}
	logger := testutil.DiscardLogger()

	users := NewUserHandler(s, logger, recorder, publisher)
	items := NewItemHandler(s, logger, recorder, publisher)
	state := NewStateHandler(s)

	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Post("/", users.Create)
		r.Get("/{id}", users.Get)
	})
	r.Route("/items", func(r chi.Router) {
		r.Get("/", items.List)
		r.Post("/", items.Create)
		r.Get("/{id}", items.Get)
	})
	r.Get("/state", state.Get)

	return &testEnv{
		store:     s,
		recorder:  recorder,
		publisher: publisher,
		router:    r,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}
