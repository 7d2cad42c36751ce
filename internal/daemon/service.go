// Package daemon provides the long-running planning API: JSON endpoints
// over the engine, a report cache, per-client rate limiting, a live event
// stream and scheduled pruning of the run history.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/pipeline"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr          string
	CacheTTL      time.Duration
	RateCapacity  int
	RateWindow    time.Duration
	Retention     time.Duration
	PruneSchedule string
	EventsBuffer  int
	Workers       int
	// Strategy and Nominal apply to requests that leave them empty.
	Strategy string
	Nominal  string
}

// History records plan runs and prunes old ones.
type History interface {
	pipeline.RunSaver
	PruneBefore(cutoff time.Time) (int64, error)
}

// Event is emitted whenever a plan or impact report is served.
type Event struct {
	ID            int64           `json:"id"`
	Type          string          `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
	Household     string          `json:"household,omitempty"`
	Loan          string          `json:"loan,omitempty"`
	Mode          string          `json:"mode,omitempty"`
	MonthsSaved   int             `json:"months_saved,omitempty"`
	InterestSaved decimal.Decimal `json:"interest_saved"`
	DangerLevel   int             `json:"danger_level,omitempty"`
	CacheHit      bool            `json:"cache_hit,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Requests        int64     `json:"requests"`
	Plans           int64     `json:"plans"`
	CacheHits       int64     `json:"cache_hits"`
	RateLimited     int64     `json:"rate_limited"`
	LastPruneAt     time.Time `json:"last_prune_at,omitempty"`
	LastPruned      int64     `json:"last_pruned"`
	LastError       string    `json:"last_error,omitempty"`
	HistoryEnabled  bool      `json:"history_enabled"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	cache   ReportCache
	history History
	limiter *RateLimiter

	mu          sync.RWMutex
	startedAt   time.Time
	requests    int64
	plans       int64
	cacheHits   int64
	rateLimited int64
	lastPruneAt time.Time
	lastPruned  int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event

	// closed on shutdown so open streams return
	done     chan struct{}
	stopOnce sync.Once
}

// New returns a daemon service. A nil cache uses an in-memory cache; a nil
// history disables run recording and pruning.
func New(cfg Config, cache ReportCache, history History) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.RateCapacity < 1 {
		cfg.RateCapacity = 60
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	if cache == nil {
		cache = NewMemoryCache()
	}

	return &Service{
		cfg:       cfg,
		cache:     cache,
		history:   history,
		limiter:   NewRateLimiter(cfg.RateCapacity, cfg.RateWindow),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
		done:      make(chan struct{}),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("POST /v1/allocate", s.handleAllocate)
	mux.HandleFunc("POST /v1/simulate", s.handleSimulate)
	mux.HandleFunc("POST /v1/plan", s.handlePlan)
	mux.HandleFunc("POST /v1/impact", s.handleImpact)
	mux.HandleFunc("POST /v1/compare", s.handleCompare)

	counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
	return rateLimit(s.limiter, s.countRateLimited, counted)
}

// Close releases background resources held by the service and ends any
// open event streams.
func (s *Service) Close() {
	s.stopStreams()
	s.limiter.Stop()
}

func (s *Service) stopStreams() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Run serves the HTTP API and the prune schedule until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	defer s.Close()

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	// Shutdown waits for active handlers; streams never finish on their own.
	server.RegisterOnShutdown(s.stopStreams)

	if s.history != nil && s.cfg.Retention > 0 && s.cfg.PruneSchedule != "" {
		sched := cron.New()
		if _, err := sched.AddFunc(s.cfg.PruneSchedule, s.pruneOnce); err != nil {
			return fmt.Errorf("scheduling history prune %q: %w", s.cfg.PruneSchedule, err)
		}
		sched.Start()
		defer sched.Stop()

		s.pruneOnce()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Printf("halos daemon listening on %s", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

func (s *Service) pruneOnce() {
	cutoff := time.Now().Add(-s.cfg.Retention)
	n, err := s.history.PruneBefore(cutoff)

	s.mu.Lock()
	s.lastPruneAt = time.Now()
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastPruned = n
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("halos daemon prune error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("halos daemon pruned %d runs older than %s", n, cutoff.Format(time.DateOnly))
	}
}

func (s *Service) countRateLimited() {
	s.mu.Lock()
	s.rateLimited++
	s.mu.Unlock()
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	log.Printf("halos daemon: %v", err)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Requests:        s.requests,
		Plans:           s.plans,
		CacheHits:       s.cacheHits,
		RateLimited:     s.rateLimited,
		LastPruneAt:     s.lastPruneAt,
		LastPruned:      s.lastPruned,
		LastError:       s.lastError,
		HistoryEnabled:  s.history != nil,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
