// Package events publishes record change notifications.
// Events are a one-way feed for downstream consumers; the service
// never reads them back.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/stash/stash/internal/model"
)

// Event kinds.
const (
	KindUserCreated = "user.created"
	KindItemCreated = "item.created"
)

// Event is the payload written to the stream.
type Event struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	RecordID  uint8           `json:"rid"`
	RequestID string          `json:"req,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"t"` // Unix milliseconds
}

// NewUserCreated builds a user.created event.
func NewUserCreated(user model.User, requestID string, at time.Time) (Event, error) {
	return newEvent(KindUserCreated, user.ID, user, requestID, at)
}

// NewItemCreated builds an item.created event.
func NewItemCreated(item model.Item, requestID string, at time.Time) (Event, error) {
	return newEvent(KindItemCreated, item.ID, item, requestID, at)
}

func newEvent(kind string, recordID uint8, record any, requestID string, at time.Time) (Event, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s record: %w", kind, err)
	}
	return Event{
		ID:        ulid.Make().String(),
		Kind:      kind,
		RecordID:  recordID,
		RequestID: requestID,
		Data:      data,
		CreatedAt: at.UnixMilli(),
	}, nil
}
