package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated           uint64
	ItemsCreated           uint64
	UserLookupMisses       uint64
	ItemLookupMisses       uint64
	UserDuplicatesRejected uint64
	ItemDuplicatesRejected uint64
	EventsPublished        uint64
	EventsDropped          uint64
}

// InMemoryRecorder keeps counters in process memory.
type InMemoryRecorder struct {
	usersCreated           uint64
	itemsCreated           uint64
	userLookupMisses       uint64
	itemLookupMisses       uint64
	userDuplicatesRejected uint64
	itemDuplicatesRejected uint64
	eventsPublished        uint64
	eventsDropped          uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:           atomic.LoadUint64(&m.usersCreated),
		ItemsCreated:           atomic.LoadUint64(&m.itemsCreated),
		UserLookupMisses:       atomic.LoadUint64(&m.userLookupMisses),
		ItemLookupMisses:       atomic.LoadUint64(&m.itemLookupMisses),
		UserDuplicatesRejected: atomic.LoadUint64(&m.userDuplicatesRejected),
		ItemDuplicatesRejected: atomic.LoadUint64(&m.itemDuplicatesRejected),
		EventsPublished:        atomic.LoadUint64(&m.eventsPublished),
		EventsDropped:          atomic.LoadUint64(&m.eventsDropped),
	}
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncItemCreated increments item created counter.
func (m *InMemoryRecorder) IncItemCreated() {
	atomic.AddUint64(&m.itemsCreated, 1)
}

// IncLookupMiss increments the not-found counter for resource.
func (m *InMemoryRecorder) IncLookupMiss(resource string) {
	switch resource {
	case ResourceUser:
		atomic.AddUint64(&m.userLookupMisses, 1)
	case ResourceItem:
		atomic.AddUint64(&m.itemLookupMisses, 1)
	}
}

// IncDuplicateRejected increments the conflict counter for resource.
func (m *InMemoryRecorder) IncDuplicateRejected(resource string) {
	switch resource {
	case ResourceUser:
		atomic.AddUint64(&m.userDuplicatesRejected, 1)
	case ResourceItem:
		atomic.AddUint64(&m.itemDuplicatesRejected, 1)
	}
}

// IncEventPublished increments the publish counter for status.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	if status == StatusSuccess {
		atomic.AddUint64(&m.eventsPublished, 1)
		return
	}
	atomic.AddUint64(&m.eventsDropped, 1)
}
