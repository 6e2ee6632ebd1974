// Package events carries the change notifications emitted by the bug store.
// Presentation layers subscribe to these instead of polling for changes.
package events

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

// Type names the mutation that produced an event.
type Type string

const (
	Created Type = "created"
	Updated Type = "updated"
	Deleted Type = "deleted"
	Reset   Type = "reset"
)

// Event describes one applied mutation.
type Event struct {
	Type  Type        `json:"type"`
	BugID string      `json:"bugId,omitempty"`
	Bug   *domain.Bug `json:"bug,omitempty"`   // nil for deleted and reset
	Count int         `json:"count,omitempty"` // collection size after a reset
	At    time.Time   `json:"at"`
}

// Notifier receives events after a mutation has been applied.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// LogNotifier writes each event as a structured log line.
type LogNotifier struct {
	Logger logger.Logger
}

func (n LogNotifier) Notify(_ context.Context, ev Event) error {
	n.Logger.Info("bug change",
		logger.String("type", string(ev.Type)),
		logger.String("bug_id", ev.BugID),
		logger.Int("count", ev.Count),
		logger.Time("at", ev.At))
	return nil
}

// Fanout delivers each event to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, ev Event) error {
	var err error
	for _, n := range f {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Notify(ctx, ev))
	}
	return err
}
