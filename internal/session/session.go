// Package session holds the state of one viewing session: the loaded dataset,
// the farm snapshot drawn at start, the selected day and the readiness gate.
package session

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/observability"
	"pig-logistics/internal/scene"
	"pig-logistics/internal/snapshot"
)

var (
	// ErrDayOutOfRange is returned for a day outside 1..MaxDay.
	ErrDayOutOfRange = errors.New("day out of range")
	// ErrNotReady is returned when a scene is requested before MarkReady.
	ErrNotReady = errors.New("session not ready")
)

// Recompute triggers.
const (
	TriggerSelect = "select"
	TriggerReady  = "ready"
	TriggerRead   = "read"
)

// Listener receives the scene produced by a recompute.
type Listener func(trigger string, sc scene.Scene)

// Options configures a Session.
type Options struct {
	Params     scene.Params
	MaxDay     int
	InitialDay int
	Generator  snapshot.Generator
	Logger     *log.Logger
}

// DefaultOptions uses the reference facility, day 1 of 15 and a time-seeded random snapshot.
func DefaultOptions() Options {
	return Options{
		Params:     scene.DefaultParams(),
		MaxDay:     domain.MaxDay,
		InitialDay: domain.MinDay,
		Generator:  snapshot.NewRandomGenerator(time.Now().UnixNano()),
	}
}

// Session is safe for concurrent use.
type Session struct {
	id       uuid.UUID
	dataset  *domain.Dataset
	snapshot map[string]domain.FarmSnapshot
	params   scene.Params
	maxDay   int
	logger   *log.Logger

	// pushMu orders recompute+notify so listeners see selections in the
	// order they were applied. Listeners must not call SelectDay or MarkReady.
	pushMu sync.Mutex

	mu          sync.RWMutex
	selectedDay int
	listeners   map[int]Listener
	nextID      int

	readyOnce sync.Once
	ready     atomic.Bool
}

// New creates a session over ds and draws its snapshot. Zero-valued options
// fall back to DefaultOptions.
func New(ds *domain.Dataset, opts Options) *Session {
	def := DefaultOptions()
	if opts.MaxDay <= 0 {
		opts.MaxDay = def.MaxDay
	}
	if opts.InitialDay < domain.MinDay || opts.InitialDay > opts.MaxDay {
		opts.InitialDay = domain.MinDay
	}
	if opts.Generator == nil {
		opts.Generator = def.Generator
	}
	if opts.Params.TruckCapacityKg == 0 && opts.Params.Origin.ID == "" {
		opts.Params = def.Params
	}
	if opts.Params.TruckCapacities == nil {
		opts.Params.TruckCapacities = def.Params.TruckCapacities
	}
	if opts.Logger == nil {
		opts.Logger = observability.DiscardLogger()
	}
	if ds == nil {
		ds = &domain.Dataset{}
	}

	s := &Session{
		id:          uuid.New(),
		dataset:     ds,
		snapshot:    opts.Generator.Generate(ds.Farms),
		params:      opts.Params,
		maxDay:      opts.MaxDay,
		logger:      opts.Logger,
		selectedDay: opts.InitialDay,
		listeners:   make(map[int]Listener),
	}
	s.logger.Printf("session %s: %d farms, %d activity rows, day %d", s.id, len(ds.Farms), len(ds.Activity), s.selectedDay)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// MaxDay returns the last selectable day.
func (s *Session) MaxDay() int { return s.maxDay }

// Params returns the facility and capacity used for derivations.
func (s *Session) Params() scene.Params { return s.params }

// Dataset returns the dataset. Callers must not modify it.
func (s *Session) Dataset() *domain.Dataset { return s.dataset }

// SelectedDay returns the current day.
func (s *Session) SelectedDay() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDay
}

// Snapshot returns a copy of the farm snapshot.
func (s *Session) Snapshot() map[string]domain.FarmSnapshot {
	out := make(map[string]domain.FarmSnapshot, len(s.snapshot))
	for k, v := range s.snapshot {
		out[k] = v
	}
	return out
}

// ValidateDay reports whether day can be selected.
func (s *Session) ValidateDay(day int) error {
	if day < domain.MinDay || day > s.maxDay {
		return fmt.Errorf("day %d not in %d..%d: %w", day, domain.MinDay, s.maxDay, ErrDayOutOfRange)
	}
	return nil
}

// SelectDay changes the selected day, rebuilds its scene and notifies listeners.
// An invalid day leaves the selection unchanged.
func (s *Session) SelectDay(day int) (scene.Scene, error) {
	if err := s.ValidateDay(day); err != nil {
		observability.RecordDaySelection(day, err)
		s.logger.Printf("reject day selection: %v", err)
		return scene.Scene{}, err
	}

	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	s.mu.Lock()
	s.selectedDay = day
	sc := s.build(day, TriggerSelect)
	listeners := s.listenersLocked()
	s.mu.Unlock()

	observability.RecordDaySelection(day, nil)
	s.notify(listeners, TriggerSelect, sc)
	return sc, nil
}

// MarkReady opens the readiness gate. Only the first call has an effect;
// it pushes the current scene to listeners.
func (s *Session) MarkReady() {
	s.readyOnce.Do(func() {
		s.ready.Store(true)
		observability.RecordReady()
		s.logger.Printf("session %s ready", s.id)

		s.pushMu.Lock()
		defer s.pushMu.Unlock()

		s.mu.RLock()
		sc := s.build(s.selectedDay, TriggerReady)
		listeners := s.listenersLocked()
		s.mu.RUnlock()

		s.notify(listeners, TriggerReady, sc)
	})
}

// Ready reports whether MarkReady has been called.
func (s *Session) Ready() bool {
	return s.ready.Load()
}

// Scene returns the scene of the selected day, or ErrNotReady.
func (s *Session) Scene() (scene.Scene, error) {
	if !s.Ready() {
		return scene.Scene{}, ErrNotReady
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.build(s.selectedDay, TriggerRead), nil
}

// SceneFor returns the scene of day without changing the selection.
func (s *Session) SceneFor(day int) (scene.Scene, error) {
	if err := s.ValidateDay(day); err != nil {
		return scene.Scene{}, err
	}
	if !s.Ready() {
		return scene.Scene{}, ErrNotReady
	}
	return s.build(day, TriggerRead), nil
}

// Metrics returns the metrics of day. It does not wait for readiness.
func (s *Session) Metrics(day int) (domain.DailyMetrics, error) {
	if err := s.ValidateDay(day); err != nil {
		return domain.DailyMetrics{}, err
	}
	return s.build(day, TriggerRead).Metrics, nil
}

// Subscribe registers fn for every recompute triggered by a selection or by
// readiness. The returned func removes it.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// build derives the scene; dataset and snapshot are read-only after New.
func (s *Session) build(day int, trigger string) scene.Scene {
	start := time.Now()
	sc := scene.Build(s.dataset, day, s.snapshot, s.params)
	observability.RecordRecompute(trigger, time.Since(start).Seconds())
	observability.RecordDayAggregated()

	if trigger != TriggerRead && sc.DroppedStops > 0 {
		observability.RecordDroppedStops(sc.DroppedStops)
		ids := make([]string, 0, len(sc.MissingFarms))
		for id := range sc.MissingFarms {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			observability.RecordMissingFarm(id)
		}
		s.logger.Printf("day %d: skipped %d route stop(s) for unknown farms %v", day, sc.DroppedStops, ids)
	}
	return sc
}

func (s *Session) listenersLocked() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}

func (s *Session) notify(listeners []Listener, trigger string, sc scene.Scene) {
	for _, fn := range listeners {
		fn(trigger, sc)
	}
}
