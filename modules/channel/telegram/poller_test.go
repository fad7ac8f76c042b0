package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// pollServer sequences getUpdates responses and records each request body.
type pollServer struct {
	t       *testing.T
	mu      sync.Mutex
	bodies  []string
	batches [][]Update
	polled  chan struct{}
}

func newPollServer(t *testing.T, batches ...[]Update) *pollServer {
	return &pollServer{
		t:       t,
		batches: batches,
		polled:  make(chan struct{}, 64),
	}
}

func (s *pollServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/getUpdates") {
			s.t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.bodies = append(s.bodies, string(body))
		var batch []Update
		if len(s.batches) > 0 {
			batch = s.batches[0]
			s.batches = s.batches[1:]
		}
		s.mu.Unlock()

		writeJSON(s.t, w, APIResponse[[]Update]{OK: true, Result: batch})
		select {
		case s.polled <- struct{}{}:
		default:
		}
	}
}

func (s *pollServer) requestBodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

func waitPolls(t *testing.T, s *pollServer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.polled:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for poll")
		}
	}
}

func textUpdate(updateID, messageID int, text string) Update {
	return Update{
		UpdateID: updateID,
		Message: &Message{
			MessageID: messageID,
			Date:      1000,
			Text:      text,
			From:      &User{ID: 42, FirstName: "Ada"},
		},
	}
}

func TestPollerOffsetSequencing(t *testing.T) {
	srv := newPollServer(t,
		[]Update{textUpdate(1, 10, "a"), textUpdate(2, 11, "b")},
		nil,
		nil,
	)
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	client := NewClient("TOKEN", ts.URL)
	p := NewPoller(client, func(context.Context, *Update) {}, testLogger(), 0)
	p.Start()
	waitPolls(t, srv, 3)
	p.Stop()

	bodies := srv.requestBodies()
	if len(bodies) < 3 {
		t.Fatalf("got %d polls, want at least 3", len(bodies))
	}

	// The first poll carries no offset at all.
	if strings.Contains(bodies[0], "offset") {
		t.Errorf("first poll body = %s, want no offset field", bodies[0])
	}

	// After a batch ending at update_id 2 the next poll asks for 3.
	var second GetUpdatesRequest
	if err := json.Unmarshal([]byte(bodies[1]), &second); err != nil {
		t.Fatalf("unmarshal second body: %v", err)
	}
	if second.Offset != 3 {
		t.Errorf("second poll offset = %d, want 3", second.Offset)
	}

	// An empty batch leaves the cursor untouched.
	var third GetUpdatesRequest
	if err := json.Unmarshal([]byte(bodies[2]), &third); err != nil {
		t.Fatalf("unmarshal third body: %v", err)
	}
	if third.Offset != 3 {
		t.Errorf("third poll offset = %d, want 3", third.Offset)
	}
}

func TestPollerWaitsForBatchBeforeNextPoll(t *testing.T) {
	var completed atomic.Int32
	var completedAtSecondPoll atomic.Int32

	srv := newPollServer(t, []Update{textUpdate(1, 10, "a"), textUpdate(2, 11, "b")})
	base := srv.handler()
	var polls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) == 2 {
			completedAtSecondPoll.Store(completed.Load())
		}
		base(w, r)
	}))
	defer ts.Close()

	client := NewClient("TOKEN", ts.URL)
	handle := func(context.Context, *Update) {
		time.Sleep(50 * time.Millisecond)
		completed.Add(1)
	}
	p := NewPoller(client, handle, testLogger(), 0)
	p.Start()
	waitPolls(t, srv, 2)
	p.Stop()

	if got := completedAtSecondPoll.Load(); got != 2 {
		t.Errorf("handlers completed before second poll = %d, want 2", got)
	}
}

func TestPollerConcurrentBatch(t *testing.T) {
	var inFlight atomic.Int32
	var peak atomic.Int32

	srv := newPollServer(t, []Update{textUpdate(1, 10, "a"), textUpdate(2, 11, "b"), textUpdate(3, 12, "c")})
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	client := NewClient("TOKEN", ts.URL)
	handle := func(context.Context, *Update) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		inFlight.Add(-1)
	}
	p := NewPoller(client, handle, testLogger(), 0)
	p.Start()
	waitPolls(t, srv, 2)
	p.Stop()

	if peak.Load() < 2 {
		t.Errorf("peak concurrent handlers = %d, want >= 2", peak.Load())
	}
}

func TestPollerContinuesAfterError(t *testing.T) {
	var calls atomic.Int32
	handled := make(chan *Update, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(t, w, APIResponse[json.RawMessage]{OK: false, ErrorCode: 500, Description: "boom"})
			return
		}
		writeJSON(t, w, APIResponse[[]Update]{OK: true, Result: []Update{textUpdate(9, 90, "back")}})
	}))
	defer ts.Close()

	client := NewClient("TOKEN", ts.URL)
	handle := func(_ context.Context, u *Update) {
		select {
		case handled <- u:
		default:
		}
	}
	p := NewPoller(client, handle, testLogger(), 0)
	p.Start()
	defer p.Stop()

	select {
	case u := <-handled:
		if u.UpdateID != 9 {
			t.Errorf("UpdateID = %d, want 9", u.UpdateID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not recover after error")
	}
}
