package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

type fakeSource struct {
	bugs []domain.Bug
	err  error
}

func (f *fakeSource) Load(time.Time) ([]domain.Bug, error) { return f.bugs, f.err }
func (f *fakeSource) Source() string                     { return "fake" }

type fakeStore struct {
	mu     sync.Mutex
	resets int
	last   []domain.Bug
	done   chan struct{}
}

func (f *fakeStore) Reset(_ context.Context, bugs []domain.Bug) {
	f.mu.Lock()
	f.resets++
	f.last = bugs
	f.mu.Unlock()
	if f.done != nil {
		select {
		case f.done <- struct{}{}:
		default:
		}
	}
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

func TestSeedResetter_Reset(t *testing.T) {
	src := &fakeSource{bugs: []domain.Bug{{ID: "1"}, {ID: "2"}}}
	st := &fakeStore{}
	sr := NewSeedResetter(src, st, logger.NewNop(), 0, nil)

	if err := sr.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if st.count() != 1 || len(st.last) != 2 {
		t.Errorf("expected one reset with 2 bugs, got %d resets, %d bugs", st.count(), len(st.last))
	}
}

func TestSeedResetter_ResetLoadError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	st := &fakeStore{}
	sr := NewSeedResetter(src, st, logger.NewNop(), 0, nil)

	if err := sr.Reset(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if st.count() != 0 {
		t.Error("store must not be reset when the seed fails to load")
	}
}

func TestSeedResetter_ManualTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trigger := make(chan struct{}, 1)
	st := &fakeStore{done: make(chan struct{}, 4)}
	sr := NewSeedResetter(&fakeSource{}, st, logger.NewNop(), 0, trigger)

	if err := sr.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer sr.Stop()
	<-st.done // initial load

	trigger <- struct{}{}
	select {
	case <-st.done:
	case <-time.After(2 * time.Second):
		t.Fatal("manual trigger did not reset the store")
	}
	if st.count() != 2 {
		t.Errorf("expected 2 resets, got %d", st.count())
	}
}

func TestSeedResetter_Interval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &fakeStore{done: make(chan struct{}, 8)}
	sr := NewSeedResetter(&fakeSource{}, st, logger.NewNop(), 10*time.Millisecond, nil)

	if err := sr.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer sr.Stop()

	deadline := time.After(2 * time.Second)
	for st.count() < 3 {
		select {
		case <-st.done:
		case <-deadline:
			t.Fatalf("expected periodic resets, got %d", st.count())
		}
	}
}

func TestSeedResetter_StartFailsOnBadSeed(t *testing.T) {
	sr := NewSeedResetter(&fakeSource{err: errors.New("bad")}, &fakeStore{}, logger.NewNop(), 0, nil)
	if err := sr.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail")
	}
	sr.Stop()
	sr.Stop()
}
