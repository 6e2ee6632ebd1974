package bugs

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
)

// State is the lifecycle of an in-flight operation as seen by a UI.
type State int

const (
	Pending State = iota
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is a snapshot of an operation: Value is set on Success,
// Err on Failure, neither while Pending.
type Result[T any] struct {
	State State
	Value T
	Err   error
}

// Operation runs one call in the background and exposes its Result.
type Operation[T any] struct {
	mu     sync.Mutex
	result Result[T]
	done   chan struct{}
}

// Start launches fn and returns immediately with a Pending operation.
func Start[T any](ctx context.Context, fn func(context.Context) (T, error)) *Operation[T] {
	op := &Operation[T]{done: make(chan struct{})}
	go func() {
		defer close(op.done)
		v, err := fn(ctx)

		op.mu.Lock()
		defer op.mu.Unlock()
		if err != nil {
			op.result = Result[T]{State: Failure, Err: err}
			return
		}
		op.result = Result[T]{State: Success, Value: v}
	}()
	return op
}

// Result returns the current snapshot without blocking.
func (o *Operation[T]) Result() Result[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Done is closed once the operation has a final result.
func (o *Operation[T]) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation finishes or ctx ends. If ctx ends first
// the returned Result is still Pending.
func (o *Operation[T]) Wait(ctx context.Context) Result[T] {
	select {
	case <-o.done:
	case <-ctx.Done():
	}
	return o.Result()
}

// CreateAsync starts a Create and tracks it as an Operation.
func (s *Service) CreateAsync(ctx context.Context, in domain.CreateInput) *Operation[domain.Bug] {
	return Start(ctx, func(ctx context.Context) (domain.Bug, error) {
		return s.Create(ctx, in)
	})
}

// UpdateAsync starts an Update and tracks it as an Operation.
func (s *Service) UpdateAsync(ctx context.Context, in domain.UpdateInput) *Operation[domain.Bug] {
	return Start(ctx, func(ctx context.Context) (domain.Bug, error) {
		return s.Update(ctx, in)
	})
}

// DeleteAsync starts a Delete and tracks it as an Operation.
func (s *Service) DeleteAsync(ctx context.Context, id string) *Operation[struct{}] {
	return Start(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.Delete(ctx, id)
	})
}
