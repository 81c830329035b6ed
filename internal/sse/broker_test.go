package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "event.created", Data: map[string]string{"id": "abc"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: event.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"id":"abc"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishChange_ViewThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First change should trigger view.updated.
	b.PublishChange("created", "a")
	// Second change immediately should NOT trigger another view.updated.
	b.PublishChange("updated", "b")

	views := 0
	deadline := time.After(time.Second)
	received := 0
	for received < 3 {
		select {
		case msg := <-ch:
			received++
			if strings.Contains(string(msg), "event: view.updated") {
				views++
			}
		case <-deadline:
			t.Fatalf("timeout; received %d messages", received)
		}
	}
	if views != 1 {
		t.Fatalf("view.updated broadcast %d times, want 1 (throttled)", views)
	}
}

func TestServeHTTP_StreamsEvents(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(rec, req)
		close(done)
	}()

	// Give the handler time to subscribe, then publish and disconnect.
	time.Sleep(50 * time.Millisecond)
	b.PublishChange("deleted", "gone")
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: event.deleted") {
		t.Errorf("stream missing event.deleted: %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
}
