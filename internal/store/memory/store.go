// Package memory implements the mock bug store: an in-memory, ordered
// collection that simulates network latency on every operation.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/events"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

// Latency is the simulated delay applied before each operation completes.
type Latency struct {
	List   time.Duration
	Create time.Duration
	Update time.Duration
	Delete time.Duration
}

// DefaultLatency mirrors the delays of the mock API the UI was built against.
var DefaultLatency = Latency{
	List:   800 * time.Millisecond,
	Create: 800 * time.Millisecond,
	Update: 600 * time.Millisecond,
	Delete: 500 * time.Millisecond,
}

// Options configures a Store. Zero values fall back to sane defaults,
// except Latency: a zero Latency means no delay at all.
type Options struct {
	Latency  Latency
	Now      func() time.Time // defaults to time.Now
	NewID    func() string    // defaults to a UUIDv7
	Notifier events.Notifier  // defaults to events.Nop
	Logger   logger.Logger    // defaults to a no-op logger
}

// Store owns the bug collection. Newest bugs come first.
// The zero value is not usable; call New.
type Store struct {
	mu        sync.RWMutex
	bugs      []domain.Bug
	lastReset time.Time

	latency  Latency
	now      func() time.Time
	newID    func() string
	notifier events.Notifier
	logger   logger.Logger
}

// New creates a store holding a copy of seed in the given order.
func New(seed []domain.Bug, opts Options) *Store {
	s := &Store{
		bugs:     cloneBugs(seed),
		latency:  opts.Latency,
		now:      opts.Now,
		newID:    opts.NewID,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newUUIDv7
	}
	if s.notifier == nil {
		s.notifier = events.Nop{}
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	return s
}

func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 only fails if the random source does
		return uuid.NewString()
	}
	return id.String()
}

// List returns a snapshot of the collection in its current order.
func (s *Store) List(ctx context.Context) ([]domain.Bug, error) {
	if err := s.wait(ctx, s.latency.List); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBugs(s.bugs), nil
}

// Get returns one bug by ID.
func (s *Store) Get(ctx context.Context, id string) (domain.Bug, error) {
	if err := s.wait(ctx, s.latency.List); err != nil {
		return domain.Bug{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Bug{}, domain.NotFound(id)
	}
	return s.bugs[i], nil
}

// Create stores a new open bug at the head of the collection.
// Input is not validated here.
func (s *Store) Create(ctx context.Context, in domain.CreateInput) (domain.Bug, error) {
	if err := s.wait(ctx, s.latency.Create); err != nil {
		return domain.Bug{}, err
	}

	s.mu.Lock()
	now := s.now()
	bug := domain.Bug{
		ID:          s.uniqueIDLocked(),
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.StatusOpen,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	bugs := make([]domain.Bug, 0, len(s.bugs)+1)
	bugs = append(bugs, bug)
	s.bugs = append(bugs, s.bugs...)
	s.mu.Unlock()

	s.emit(ctx, events.Event{Type: events.Created, BugID: bug.ID, Bug: &bug, At: now})
	return bug, nil
}

// Update merges the provided fields onto an existing bug, keeping its
// position in the collection.
func (s *Store) Update(ctx context.Context, in domain.UpdateInput) (domain.Bug, error) {
	if err := s.wait(ctx, s.latency.Update); err != nil {
		return domain.Bug{}, err
	}

	s.mu.Lock()
	i := s.indexOf(in.ID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Bug{}, domain.NotFound(in.ID)
	}
	bug := in.Apply(s.bugs[i])
	bug.UpdatedAt = s.now()
	s.bugs[i] = bug
	s.mu.Unlock()

	s.emit(ctx, events.Event{Type: events.Updated, BugID: bug.ID, Bug: &bug, At: bug.UpdatedAt})
	return bug, nil
}

// Delete removes a bug.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx, s.latency.Delete); err != nil {
		return err
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.NotFound(id)
	}
	bugs := make([]domain.Bug, 0, len(s.bugs)-1)
	bugs = append(bugs, s.bugs[:i]...)
	s.bugs = append(bugs, s.bugs[i+1:]...)
	at := s.now()
	s.mu.Unlock()

	s.emit(ctx, events.Event{Type: events.Deleted, BugID: id, At: at})
	return nil
}

// Reset replaces the whole collection, without simulated latency.
func (s *Store) Reset(ctx context.Context, bugs []domain.Bug) {
	s.mu.Lock()
	s.bugs = cloneBugs(bugs)
	at := s.now()
	s.lastReset = at
	s.mu.Unlock()

	s.emit(ctx, events.Event{Type: events.Reset, Count: len(bugs), At: at})
}

// Len returns the number of bugs currently stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bugs)
}

// LastReset returns when Reset last ran, or the zero time.
func (s *Store) LastReset() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReset
}

// wait blocks for d or until ctx ends. Nothing has been applied when it
// returns an error.
func (s *Store) wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) emit(ctx context.Context, ev events.Event) {
	// mutation already applied; notification errors are only logged
	if err := s.notifier.Notify(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Warn("failed to notify bug change",
			logger.String("type", string(ev.Type)),
			logger.String("bug_id", ev.BugID),
			logger.Error(err))
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.bugs {
		if s.bugs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

func cloneBugs(in []domain.Bug) []domain.Bug {
	out := make([]domain.Bug, len(in))
	copy(out, in)
	return out
}
