// Package session manages the lifecycle of state-program sessions: one
// driver-owned program instance per logical session, created from a factory
// and disposed when the session closes.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stateroom/stateroom/driver"
	"github.com/stateroom/stateroom/observability"
	"github.com/stateroom/stateroom/program"
)

// Session is one live state-program instance and the driver that owns it.
type Session[T any] struct {
	id     string
	driver *driver.Driver[T]
	cancel context.CancelFunc
}

// ID returns the unique session identifier.
func (s *Session[T]) ID() string {
	return s.id
}

// Driver returns the session's authoritative driver.
func (s *Session[T]) Driver() *driver.Driver[T] {
	return s.driver
}

// Option configures a Manager.
type Option[T any] func(*Manager[T])

// WithObserver sets the observer passed to every session driver.
func WithObserver[T any](o observability.Observer) Option[T] {
	return func(m *Manager[T]) { m.observer = o }
}

// WithScheduler sets the scheduler passed to every session driver.
func WithScheduler[T any](s driver.Scheduler[T]) Option[T] {
	return func(m *Manager[T]) { m.scheduler = s }
}

// Manager creates and tracks sessions. Each Create call produces an
// independent program instance from the factory and starts its driver loop;
// sessions share no mutable state with each other. Safe for concurrent use.
type Manager[T any] struct {
	factory   program.Factory[T]
	config    Config
	observer  observability.Observer
	scheduler driver.Scheduler[T]

	mu       sync.RWMutex
	sessions map[string]*Session[T]
	closed   bool
}

// NewManager creates a Manager that builds sessions from factory.
func NewManager[T any](factory program.Factory[T], cfg *Config, opts ...Option[T]) *Manager[T] {
	m := &Manager[T]{
		factory:  factory,
		config:   *cfg,
		observer: observability.NoOpObserver{},
		sessions: make(map[string]*Session[T]),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Create starts a new session: a fresh program instance from the factory,
// a unique UUIDv7 identifier, and a running driver loop. The driver stops
// when the session is closed or ctx is cancelled.
func (m *Manager[T]) Create(ctx context.Context) (*Session[T], error) {
	id := uuid.Must(uuid.NewV7()).String()

	opts := []driver.Option[T]{
		driver.WithObserver[T](m.observer),
		driver.WithSessionID[T](id),
	}
	if m.scheduler != nil {
		opts = append(opts, driver.WithScheduler[T](m.scheduler))
	}

	d := driver.New(m.factory.Create(), &m.config.Driver, opts...)

	runCtx, cancel := context.WithCancel(ctx)
	s := &Session[T]{id: id, driver: d, cancel: cancel}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	m.sessions[id] = s
	m.mu.Unlock()

	go d.Run(runCtx)

	m.observer.OnEvent(ctx, observability.Event{
		Type:      EventCreate,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "session.Manager",
		Session:   id,
	})

	return s, nil
}

// Get returns the live session with the given id.
func (m *Manager[T]) Get(id string) (*Session[T], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// List returns the ids of all live sessions.
func (m *Manager[T]) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Close stops the session's driver and removes it from the manager.
func (m *Manager[T]) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	s.cancel()
	<-s.driver.Done()

	m.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventClose,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "session.Manager",
		Session:   id,
	})

	return nil
}

// CloseAll stops every live session and rejects further Create calls.
func (m *Manager[T]) CloseAll() {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[string]*Session[T])
	m.mu.Unlock()

	for _, s := range sessions {
		s.cancel()
		<-s.driver.Done()
	}
}
