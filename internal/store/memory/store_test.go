package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/events"
)

// fakeClock advances one minute on every call.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Notify(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func seed() []domain.Bug {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Bug{
		{ID: "1", Title: "Login button not working", Description: "Users can't log in using the main login button in Chrome",
			Status: domain.StatusOpen, Priority: domain.PriorityHigh, CreatedAt: base, UpdatedAt: base},
		{ID: "2", Title: "Pagination breaks on mobile", Description: "The pagination controls overlap with content on small screens",
			Status: domain.StatusInProgress, Priority: domain.PriorityMedium, CreatedAt: base, UpdatedAt: base},
		{ID: "3", Title: "Profile images not loading", Description: "User profile images fail to load in the dashboard view",
			Status: domain.StatusResolved, Priority: domain.PriorityLow, CreatedAt: base, UpdatedAt: base},
	}
}

func newTestStore(t *testing.T) (*Store, *recorder) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)}
	n := 0
	rec := &recorder{}
	s := New(seed(), Options{
		Now: clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		},
		Notifier: rec,
	})
	return s, rec
}

func mustList(t *testing.T, s *Store) []domain.Bug {
	t.Helper()
	bugs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	return bugs
}

func idsOf(bugs []domain.Bug) string {
	out := ""
	for i, b := range bugs {
		if i > 0 {
			out += ","
		}
		out += b.ID
	}
	return out
}

func TestListReturnsSnapshot(t *testing.T) {
	s, _ := newTestStore(t)

	first := mustList(t, s)
	if got := idsOf(first); got != "1,2,3" {
		t.Fatalf("List() = %s, want 1,2,3", got)
	}

	first[0].Title = "changed by caller"
	again := mustList(t, s)
	if again[0].Title == "changed by caller" {
		t.Error("List() should return a copy, caller mutation leaked into the store")
	}
}

func TestCreate(t *testing.T) {
	s, rec := newTestStore(t)
	ctx := context.Background()

	bug, err := s.Create(ctx, domain.CreateInput{
		Title:       "Crash on save",
		Description: "Saving a large file crashes the editor",
		Priority:    domain.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if bug.ID != "new-1" {
		t.Errorf("Create() id = %q, want new-1", bug.ID)
	}
	if bug.Status != domain.StatusOpen {
		t.Errorf("Create() status = %q, want open", bug.Status)
	}
	if !bug.CreatedAt.Equal(bug.UpdatedAt) {
		t.Errorf("Create() createdAt %v != updatedAt %v", bug.CreatedAt, bug.UpdatedAt)
	}

	bugs := mustList(t, s)
	if got := idsOf(bugs); got != "new-1,1,2,3" {
		t.Errorf("List() after Create = %s, want new-1,1,2,3", got)
	}
	count := 0
	for _, b := range bugs {
		if b.ID == bug.ID {
			count++
			if b != bug {
				t.Errorf("listed bug %+v differs from created %+v", b, bug)
			}
		}
	}
	if count != 1 {
		t.Errorf("created bug listed %d times, want 1", count)
	}

	if len(rec.events) != 1 || rec.events[0].Type != events.Created || rec.events[0].BugID != "new-1" {
		t.Errorf("events = %+v, want one created event", rec.events)
	}
}

func TestCreateRetriesDuplicateIDs(t *testing.T) {
	ids := []string{"1", "2", "", "fresh"}
	s := New(seed(), Options{NewID: func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}})

	bug, err := s.Create(context.Background(), domain.CreateInput{Title: "Another bug", Description: "Something else broke", Priority: domain.PriorityLow})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if bug.ID != "fresh" {
		t.Errorf("Create() id = %q, want fresh", bug.ID)
	}
}

func TestDefaultIDsAreUnique(t *testing.T) {
	s := New(nil, Options{})
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		bug, err := s.Create(context.Background(), domain.CreateInput{Title: "title", Priority: domain.PriorityLow})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[bug.ID] {
			t.Fatalf("duplicate id %q", bug.ID)
		}
		seen[bug.ID] = true
	}
}

func TestUpdateMergesProvidedFields(t *testing.T) {
	s, rec := newTestStore(t)
	ctx := context.Background()

	before := mustList(t, s)[1]
	resolved := domain.StatusResolved

	got, err := s.Update(ctx, domain.UpdateInput{ID: "2", Status: &resolved})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got.Status != domain.StatusResolved {
		t.Errorf("Update() status = %q, want resolved", got.Status)
	}
	if got.Title != before.Title || got.Description != before.Description || got.Priority != before.Priority {
		t.Errorf("Update() changed untouched fields: before %+v, after %+v", before, got)
	}
	if !got.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("Update() changed createdAt")
	}
	if !got.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("Update() updatedAt %v did not advance past %v", got.UpdatedAt, before.UpdatedAt)
	}

	bugs := mustList(t, s)
	if idsOf(bugs) != "1,2,3" {
		t.Errorf("Update() moved the bug: %s", idsOf(bugs))
	}
	if bugs[1] != got {
		t.Errorf("listed bug %+v differs from updated %+v", bugs[1], got)
	}
	if len(rec.events) != 1 || rec.events[0].Type != events.Updated {
		t.Errorf("events = %+v, want one updated event", rec.events)
	}
}

func TestNotFound(t *testing.T) {
	s, rec := newTestStore(t)
	ctx := context.Background()
	title := "Renamed bug"

	_, err := s.Update(ctx, domain.UpdateInput{ID: "missing", Title: &title})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}

	err = s.Delete(ctx, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}

	_, err = s.Get(ctx, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if got := idsOf(mustList(t, s)); got != "1,2,3" {
		t.Errorf("collection changed after failed calls: %s", got)
	}
	if len(rec.events) != 0 {
		t.Errorf("failed calls emitted events: %+v", rec.events)
	}
}

func TestDelete(t *testing.T) {
	s, rec := newTestStore(t)

	if err := s.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := idsOf(mustList(t, s)); got != "1,3" {
		t.Errorf("List() after Delete = %s, want 1,3", got)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if len(rec.events) != 1 || rec.events[0].Type != events.Deleted || rec.events[0].BugID != "2" {
		t.Errorf("events = %+v, want one deleted event", rec.events)
	}
}

func TestGet(t *testing.T) {
	s, _ := newTestStore(t)
	bug, err := s.Get(context.Background(), "3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if bug.Title != "Profile images not loading" {
		t.Errorf("Get() title = %q", bug.Title)
	}
}

func TestReset(t *testing.T) {
	s, rec := newTestStore(t)
	ctx := context.Background()

	if !s.LastReset().IsZero() {
		t.Error("LastReset() should be zero before any reset")
	}
	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	s.Reset(ctx, seed())

	if s.LastReset().IsZero() {
		t.Error("LastReset() should be set after Reset")
	}

	if got := idsOf(mustList(t, s)); got != "1,2,3" {
		t.Errorf("List() after Reset = %s, want 1,2,3", got)
	}
	last := rec.events[len(rec.events)-1]
	if last.Type != events.Reset || last.Count != 3 {
		t.Errorf("last event = %+v, want reset with count 3", last)
	}
}

func TestLatencyIsApplied(t *testing.T) {
	s := New(seed(), Options{Latency: Latency{List: 30 * time.Millisecond}})

	start := time.Now()
	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("List() returned after %v, want at least 30ms", elapsed)
	}
}

func TestCancelledContextAppliesNothing(t *testing.T) {
	rec := &recorder{}
	s := New(seed(), Options{Latency: Latency{Create: time.Second, Delete: time.Second}, Notifier: rec})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Create(ctx, domain.CreateInput{Title: "Never stored", Description: "Cancelled before completion", Priority: domain.PriorityLow})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Create() error = %v, want DeadlineExceeded", err)
	}

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	if err := s.Delete(cancelled, "1"); !errors.Is(err, context.Canceled) {
		t.Errorf("Delete() error = %v, want Canceled", err)
	}

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3 after cancelled mutations", s.Len())
	}
	if len(rec.events) != 0 {
		t.Errorf("cancelled mutations emitted events: %+v", rec.events)
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := New(nil, Options{Latency: Latency{Create: time.Millisecond, Update: time.Millisecond}})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, domain.CreateInput{Title: fmt.Sprintf("bug %d", i), Priority: domain.PriorityLow})
			if err != nil {
				t.Errorf("Create() error = %v", err)
			}
		}(i)
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.List(ctx)
		}()
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("Len() = %d, want 50", s.Len())
	}
}
