package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

// SeedSource produces the bug set a reset restores.
type SeedSource interface {
	Load(now time.Time) ([]domain.Bug, error)
	Source() string
}

// Resettable is the store side of a reset.
type Resettable interface {
	Reset(ctx context.Context, bugs []domain.Bug)
}

// SeedResetter restores the store to its seed, on a manual trigger and
// optionally on a fixed interval.
type SeedResetter struct {
	source        SeedSource
	store         Resettable
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

// NewSeedResetter creates a resetter. interval <= 0 disables periodic resets;
// manualTrigger may be nil.
func NewSeedResetter(
	source SeedSource,
	store Resettable,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedResetter {
	return &SeedResetter{
		source:        source,
		store:         store,
		logger:        log,
		interval:      interval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start performs the initial load then runs the trigger loop in the background.
func (sr *SeedResetter) Start(ctx context.Context) error {
	if err := sr.Reset(ctx); err != nil {
		return fmt.Errorf("initial seed load failed: %w", err)
	}

	var tick <-chan time.Time
	var ticker *time.Ticker
	if sr.interval > 0 {
		ticker = time.NewTicker(sr.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				if err := sr.Reset(ctx); err != nil {
					sr.logger.Error("periodic seed reset failed", logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual seed reset triggered")
				if err := sr.Reset(ctx); err != nil {
					sr.logger.Error("manual seed reset failed", logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop ends the trigger loop. Safe to call more than once.
func (sr *SeedResetter) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopCh) })
}

// Reset loads the seed and replaces the store contents. On a load error the
// store is left untouched.
func (sr *SeedResetter) Reset(ctx context.Context) error {
	bugs, err := sr.source.Load(sr.now())
	if err != nil {
		return fmt.Errorf("failed to load seed from %s: %w", sr.source.Source(), err)
	}

	sr.store.Reset(ctx, bugs)
	sr.logger.Info("store reset to seed",
		logger.String("source", sr.source.Source()),
		logger.Int("count", len(bugs)))
	return nil
}
