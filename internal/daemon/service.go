// Package daemon provides the long-running local dashboard feed.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/richlife/internal/health"
	"github.com/theirongolddev/richlife/internal/model"
	"github.com/theirongolddev/richlife/internal/pipeline"
	"github.com/theirongolddev/richlife/internal/store"
)

// Source is the document the daemon reloads on every tick.
type Source interface {
	Load() (store.LoadReport, error)
	Document() *model.Document
}

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Schedule     string
	EventsBuffer int
	RangeMonths  int
	Health       health.Options
	DBPath       string
}

// Summary is a compact dashboard state for status/event payloads.
type Summary struct {
	At           time.Time  `json:"at"`
	AsOf         model.Date `json:"as_of"`
	Currency     string     `json:"currency"`
	Snapshots    int        `json:"snapshots"`
	NetWorth     float64    `json:"net_worth"`
	HealthScore  int        `json:"health_score"`
	GoalsOnTrack int        `json:"goals_on_track"`
	TasksOpen    int        `json:"tasks_open"`
}

// Delta captures summary changes between reloads.
type Delta struct {
	Snapshots   int     `json:"snapshots"`
	NetWorth    float64 `json:"net_worth"`
	HealthScore int     `json:"health_score"`
}

func (d Delta) isZero() bool {
	return d.Snapshots == 0 &&
		d.NetWorth == 0 &&
		d.HealthScore == 0
}

// Event types.
const (
	EventDashboard      = "dashboard"
	EventDashboardDelta = "dashboard_delta"
)

// Event is emitted whenever the dashboard changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Summary   Summary   `json:"summary"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastReloadAt    time.Time `json:"last_reload_at"`
	Schedule        string    `json:"schedule"`
	ReloadCount     int64     `json:"reload_count"`
	DBPath          string    `json:"db_path,omitempty"`
	Summary         Summary   `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg   Config
	src   Source
	log   logrus.FieldLogger
	today func() model.Date

	mu           sync.RWMutex
	startedAt    time.Time
	lastReloadAt time.Time
	reloadCount  int64
	lastError    string
	hasSummary   bool
	summary      Summary
	dashboard    model.Dashboard
	nextEventID  int64
	events       []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading from src.
func New(cfg Config, src Source, log logrus.FieldLogger) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 30s"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Service{
		cfg:       cfg,
		src:       src,
		log:       log,
		today:     model.Today,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP routes of the service.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/v1/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/v1/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/v1/stream", s.handleStream).Methods(http.MethodGet)
	return r
}

// Run serves the HTTP API and reloads on the configured schedule until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	// The store is not safe for concurrent use, so overlapping reloads are skipped.
	cl := cron.PrintfLogger(s.log)
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(s.cfg.Schedule, s.reloadOnce); err != nil {
		return fmt.Errorf("daemon schedule %q: %w", s.cfg.Schedule, err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed the dashboard so status is useful immediately.
	s.reloadOnce()

	c.Start()
	defer c.Stop()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

func (s *Service) reloadOnce() {
	_, err := s.src.Load()
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastReloadAt = now
		s.reloadCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("daemon reload failed")
		return
	}

	dash := pipeline.Build(s.src.Document(), s.today(), pipeline.Options{
		RangeMonths: s.cfg.RangeMonths,
		Health:      s.cfg.Health,
	})
	sum := summarize(dash, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.summary
	prevExists := s.hasSummary

	s.hasSummary = true
	s.summary = sum
	s.dashboard = dash
	s.lastReloadAt = now
	s.reloadCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventDashboard,
			Timestamp: now,
			Summary:   sum,
		}
		publish = true
	} else if delta := diffSummaries(prev, sum); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventDashboardDelta,
			Timestamp: now,
			Summary:   sum,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.WithFields(logrus.Fields{
			"event":     ev.Type,
			"snapshots": sum.Snapshots,
		}).Debug("dashboard changed")
		s.publishEvent(ev)
	}
}

func summarize(d model.Dashboard, at time.Time) Summary {
	sum := Summary{
		At:          at,
		AsOf:        d.AsOf,
		Currency:    d.Currency,
		Snapshots:   d.SnapshotCount,
		NetWorth:    d.NetWorthTotal().Value,
		HealthScore: d.Health.Score,
		TasksOpen:   len(d.Tasks) - d.TasksDone,
	}
	for _, g := range d.Goals {
		if g.OnTrack {
			sum.GoalsOnTrack++
		}
	}
	return sum
}

func diffSummaries(prev, curr Summary) Delta {
	return Delta{
		Snapshots:   curr.Snapshots - prev.Snapshots,
		NetWorth:    model.Sum(curr.NetWorth, -prev.NetWorth),
		HealthScore: curr.HealthScore - prev.HealthScore,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
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
		LastReloadAt:    s.lastReloadAt,
		Schedule:        s.cfg.Schedule,
		ReloadCount:     s.reloadCount,
		DBPath:          s.cfg.DBPath,
		Summary:         s.summary,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready := s.hasSummary
	dash := s.dashboard
	s.mu.RUnlock()

	if !ready {
		http.Error(w, "dashboard not loaded yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, dash)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
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

	// Send the current summary immediately.
	current := Event{
		Type:      EventDashboard,
		Timestamp: time.Now(),
		Summary:   s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
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
