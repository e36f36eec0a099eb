package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stash/stash/internal/metrics"
	"github.com/stash/stash/internal/model"
	"github.com/stash/stash/internal/testutil"
)

func TestStreamPublisher_DefaultStream(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	p := NewStreamPublisher(client, "", testutil.DiscardLogger(), nil)
	if p.Stream() != DefaultStreamKey {
		t.Errorf("Stream() = %q, want %q", p.Stream(), DefaultStreamKey)
	}
}

func TestStreamPublisher_UnreachableDrops(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	recorder := metrics.NewInMemory()
	p := NewStreamPublisher(client, "stream:test", testutil.DiscardLogger(), recorder)

	event, err := NewUserCreated(model.User{ID: 1}, "", time.Now())
	if err != nil {
		t.Fatalf("NewUserCreated: %v", err)
	}
	p.PublishAsync(event)

	ok := testutil.WaitFor(t, 2*time.Second, func() bool {
		return recorder.Snapshot().EventsDropped == 1
	})
	if !ok {
		t.Fatalf("expected one dropped event, got %+v", recorder.Snapshot())
	}
	if recorder.Snapshot().EventsPublished != 0 {
		t.Errorf("expected no published events")
	}
}

func TestStreamPublisher_CloseDrainsInFlight(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})

	recorder := metrics.NewInMemory()
	p := NewStreamPublisher(client, "stream:test", testutil.DiscardLogger(), recorder)

	const n = 5
	for i := 0; i < n; i++ {
		event, err := NewUserCreated(model.User{ID: uint8(i)}, "", time.Now())
		if err != nil {
			t.Fatalf("NewUserCreated: %v", err)
		}
		p.PublishAsync(event)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Close returns only after every in-flight publish has settled.
	snap := recorder.Snapshot()
	if snap.EventsDropped+snap.EventsPublished != n {
		t.Fatalf("settled events = %d, want %d (%+v)", snap.EventsDropped+snap.EventsPublished, n, snap)
	}

	event, _ := NewUserCreated(model.User{ID: 99}, "", time.Now())
	p.PublishAsync(event)
	if got := recorder.Snapshot().EventsDropped; got != snap.EventsDropped+1 {
		t.Errorf("publish after Close: dropped = %d, want %d", got, snap.EventsDropped+1)
	}
}

func TestStreamPublisher_PublishIntegration(t *testing.T) {
	client := testutil.NewRedisClient(t)
	ctx := context.Background()

	stream := fmt.Sprintf("stream:test:%d", time.Now().UnixNano())
	t.Cleanup(func() { client.Del(context.Background(), stream) })

	recorder := metrics.NewInMemory()
	p := NewStreamPublisher(client, stream, testutil.DiscardLogger(), recorder)

	item := model.Item{ID: 5, Name: "bike", Owner: model.User{ID: 1, Username: "alice", Age: 30}}
	event, err := NewItemCreated(item, "req-42", time.Now())
	if err != nil {
		t.Fatalf("NewItemCreated: %v", err)
	}

	streamID, err := p.Publish(ctx, event)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs, err := client.XRange(ctx, stream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != streamID {
		t.Fatalf("unexpected stream contents: %+v", msgs)
	}
	if msgs[0].Values["kind"] != KindItemCreated {
		t.Errorf("kind = %v, want %s", msgs[0].Values["kind"], KindItemCreated)
	}

	var got Event
	if err := json.Unmarshal([]byte(msgs[0].Values["payload"].(string)), &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.ID != event.ID || got.RequestID != "req-42" {
		t.Errorf("payload = %+v, want id %s", got, event.ID)
	}

	p.PublishAsync(event)
	ok := testutil.WaitFor(t, 2*time.Second, func() bool {
		return recorder.Snapshot().EventsPublished == 1
	})
	if !ok {
		t.Fatalf("async publish not recorded: %+v", recorder.Snapshot())
	}
}
