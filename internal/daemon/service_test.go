package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/halos/internal/store"
)

type fakeHistory struct {
	mu     sync.Mutex
	runs   []store.Run
	pruned []time.Time
	pruneN int64
}

func (f *fakeHistory) SaveRun(r store.Run) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, r)
	return "run-" + r.Fingerprint, nil
}

func (f *fakeHistory) PruneBefore(cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruned = append(f.pruned, cutoff)
	return f.pruneN, nil
}

func newTestService(t *testing.T, cfg Config, hist History) *Service {
	t.Helper()
	s := New(cfg, nil, hist)
	t.Cleanup(s.Close)
	return s
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(t, Config{EventsBuffer: 2}, nil)

	s.publishEvent(Event{Type: "plan"})
	s.publishEvent(Event{Type: "plan"})
	s.publishEvent(Event{Type: "impact"})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
	if s.events[1].Timestamp.IsZero() {
		t.Fatal("event timestamp not set")
	}
}

func TestPublishEventFansOutToSubscribers(t *testing.T) {
	s := newTestService(t, Config{}, nil)

	ch := make(chan Event, 1)
	id := s.addSubscriber(ch)
	s.publishEvent(Event{Type: "plan", Household: "Demo"})

	select {
	case ev := <-ch:
		if ev.Household != "Demo" {
			t.Fatalf("Household = %q, want Demo", ev.Household)
		}
	default:
		t.Fatal("subscriber received nothing")
	}

	s.removeSubscriber(id)
	if got := s.snapshotStatus().SubscriberCount; got != 0 {
		t.Fatalf("SubscriberCount = %d, want 0", got)
	}
}

func TestHealthAndStatus(t *testing.T) {
	s := newTestService(t, Config{}, &fakeHistory{})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Fatalf("healthz = %d %q, want 200 ok", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if st.Requests != 2 {
		t.Fatalf("Requests = %d, want 2", st.Requests)
	}
	if !st.HistoryEnabled {
		t.Fatal("HistoryEnabled = false, want true")
	}
}

func TestPruneOnceUsesRetention(t *testing.T) {
	hist := &fakeHistory{pruneN: 3}
	s := newTestService(t, Config{Retention: 48 * time.Hour}, hist)

	before := time.Now().Add(-48 * time.Hour)
	s.pruneOnce()
	after := time.Now().Add(-48 * time.Hour)

	if len(hist.pruned) != 1 {
		t.Fatalf("prune calls = %d, want 1", len(hist.pruned))
	}
	cutoff := hist.pruned[0]
	if cutoff.Before(before) || cutoff.After(after) {
		t.Fatalf("cutoff = %v, want between %v and %v", cutoff, before, after)
	}
	if st := s.snapshotStatus(); st.LastPruned != 3 || st.LastPruneAt.IsZero() {
		t.Fatalf("status after prune = %+v, want LastPruned 3", st)
	}
}

func TestRateLimitedRequestsAreCounted(t *testing.T) {
	s := newTestService(t, Config{RateCapacity: 1, RateWindow: time.Hour}, nil)
	h := s.Handler()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if rec.Code != want {
			t.Fatalf("request %d code = %d, want %d", i, rec.Code, want)
		}
	}
	if got := s.snapshotStatus().RateLimited; got != 1 {
		t.Fatalf("RateLimited = %d, want 1", got)
	}
}

func TestShutdownEndsOpenStreams(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	ts := httptest.NewUnstartedServer(s.Handler())
	ts.Config.RegisterOnShutdown(s.stopStreams)
	ts.Start()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/stream")
	if err != nil {
		t.Fatalf("GET /v1/stream: %v", err)
	}
	defer resp.Body.Close()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil || line != ": connected\n" {
		t.Fatalf("first line = %q, %v; want connected comment", line, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	if err := ts.Config.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Shutdown took %s with an open stream", elapsed)
	}
	if got := s.snapshotStatus().SubscriberCount; got != 0 {
		t.Fatalf("SubscriberCount = %d, want 0", got)
	}
}
