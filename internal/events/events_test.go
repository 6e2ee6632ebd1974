package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Notify(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestFanout(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("boom")}
	f := Fanout{ok, nil, failing, LogNotifier{Logger: logger.NewNop()}, Nop{}}

	err := f.Notify(context.Background(), Event{Type: Deleted, BugID: "1"})
	if err == nil || err.Error() != "boom" {
		t.Errorf("Fanout.Notify() = %v, want boom", err)
	}
	if len(ok.events) != 1 || len(failing.events) != 1 {
		t.Errorf("Fanout should deliver to every notifier, got %d and %d", len(ok.events), len(failing.events))
	}
}

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisPublisherNotify(t *testing.T) {
	fake := &fakePublisher{}
	p := NewRedisPublisher(fake, "")
	if p.Channel() != DefaultChannel {
		t.Errorf("Channel() = %q, want %q", p.Channel(), DefaultChannel)
	}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	bug := domain.Bug{ID: "7", Title: "Broken link", Status: domain.StatusOpen, Priority: domain.PriorityLow}
	if err := p.Notify(context.Background(), Event{Type: Created, BugID: "7", Bug: &bug, At: at}); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	if fake.channel != DefaultChannel {
		t.Errorf("published on %q, want %q", fake.channel, DefaultChannel)
	}
	var got Event
	if err := json.Unmarshal(fake.payload, &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.Type != Created || got.BugID != "7" || got.Bug == nil || got.Bug.Title != "Broken link" {
		t.Errorf("payload = %+v", got)
	}
}

func TestRedisPublisherError(t *testing.T) {
	p := NewRedisPublisher(&fakePublisher{err: errors.New("connection refused")}, "custom")
	err := p.Notify(context.Background(), Event{Type: Reset, Count: 3})
	if err == nil {
		t.Fatal("Notify() = nil, want error")
	}
}
