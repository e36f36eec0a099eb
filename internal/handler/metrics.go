package handler

import (
	"fmt"
	"net/http"

	"github.com/stash/stash/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "stash_records_created_total{resource=\"user\"} %d\n", snap.UsersCreated)
	writeMetric(w, "stash_records_created_total{resource=\"item\"} %d\n", snap.ItemsCreated)

	writeMetric(w, "stash_lookup_misses_total{resource=\"user\"} %d\n", snap.UserLookupMisses)
	writeMetric(w, "stash_lookup_misses_total{resource=\"item\"} %d\n", snap.ItemLookupMisses)

	writeMetric(w, "stash_duplicates_rejected_total{resource=\"user\"} %d\n", snap.UserDuplicatesRejected)
	writeMetric(w, "stash_duplicates_rejected_total{resource=\"item\"} %d\n", snap.ItemDuplicatesRejected)

	writeMetric(w, "stash_events_published_total{status=\"success\"} %d\n", snap.EventsPublished)
	writeMetric(w, "stash_events_published_total{status=\"dropped\"} %d\n", snap.EventsDropped)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
