package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeServer mimics the message list and poll endpoints for one
// conversation, with the same anchor semantics as the real API.
type fakeServer struct {
	mu       sync.Mutex
	messages []Message
	gone     bool
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversations/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gone {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Conversation not found"})
			return
		}
		json.NewEncoder(w).Encode(f.messages)
	})
	mux.HandleFunc("/api/conversations/c1/messages/poll", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gone {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Conversation not found"})
			return
		}
		anchor := r.URL.Query().Get("lastMessageId")
		result := []Message{}
		if anchor != "" {
			found := false
			var after []Message
			for _, m := range f.messages {
				if found {
					after = append(after, m)
				}
				if m.ID == anchor {
					found = true
					after = nil
				}
			}
			// Deleted anchor reads as nothing new
			if found {
				if after != nil {
					result = after
				}
			}
		}
		json.NewEncoder(w).Encode(result)
	})
	return mux
}

func (f *fakeServer) append(id, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, Message{
		ID:        id,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

func (f *fakeServer) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	f.messages = kept
}

func TestPoller_InitialFetchThenPollsNewMessages(t *testing.T) {
	fake := &fakeServer{}
	fake.append("m1", "one")
	fake.append("m2", "two")

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	received := make(chan []Message, 16)
	poller := &Poller{
		Client:         New(srv.URL, "test-token"),
		ConversationID: "c1",
		Interval:       10 * time.Millisecond,
		RefreshEvery:   -1, // poll-only, no periodic refresh
		OnMessages:     func(batch []Message) { received <- batch },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	// Initial full fetch
	initial := waitForBatch(t, received)
	assert.Len(t, initial, 2)
	assert.Equal(t, "m2", poller.Anchor())

	// A new message shows up on a later poll
	fake.append("m3", "three")
	next := waitForBatch(t, received)
	assert.Len(t, next, 1)
	assert.Equal(t, "m3", next[0].ID)
	assert.Equal(t, "m3", poller.Anchor())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestPoller_RefreshRecoversFromDeletedAnchor(t *testing.T) {
	fake := &fakeServer{}
	fake.append("m1", "one")
	fake.append("m2", "two")

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	received := make(chan []Message, 16)
	poller := &Poller{
		Client:         New(srv.URL, "test-token"),
		ConversationID: "c1",
		Interval:       10 * time.Millisecond,
		RefreshEvery:   3,
		OnMessages:     func(batch []Message) { received <- batch },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	waitForBatch(t, received) // initial list, anchor = m2

	// The anchor disappears server-side; polls now return empty, and only
	// the periodic full refresh can move the poller forward.
	fake.remove("m2")
	fake.append("m3", "three")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case batch := <-received:
			if len(batch) > 0 && batch[len(batch)-1].ID == "m3" {
				assert.Equal(t, "m3", poller.Anchor())
				return
			}
		case <-deadline:
			t.Fatal("poller never recovered from deleted anchor")
		}
	}
}

func TestPoller_StopsWhenConversationIsGone(t *testing.T) {
	fake := &fakeServer{}
	fake.append("m1", "one")

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	received := make(chan []Message, 16)
	poller := &Poller{
		Client:         New(srv.URL, "test-token"),
		ConversationID: "c1",
		Interval:       10 * time.Millisecond,
		OnMessages:     func(batch []Message) { received <- batch },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	waitForBatch(t, received)

	fake.mu.Lock()
	fake.gone = true
	fake.mu.Unlock()

	err := <-done
	assert.True(t, IsNotFound(err), "expected a 404 API error, got %v", err)
}

func waitForBatch(t *testing.T, ch chan []Message) []Message {
	t.Helper()
	select {
	case batch := <-ch:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages")
		return nil
	}
}
