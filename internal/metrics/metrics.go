// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Resource names used as metric labels.
const (
	ResourceUser = "user"
	ResourceItem = "item"
)

// Event publish outcomes.
const (
	StatusSuccess = "success"
	StatusDropped = "dropped"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Record management metrics
	IncUserCreated()
	IncItemCreated()
	IncLookupMiss(resource string)
	IncDuplicateRejected(resource string)

	// Event stream metrics
	IncEventPublished(status string) // status: "success" or "dropped"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
