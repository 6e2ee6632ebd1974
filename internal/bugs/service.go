// Package bugs is the entry point presentation layers use: it validates
// input, runs it against the store and shapes list views.
package bugs

import (
	"context"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
)

// Store is the persistence contract the service relies on.
type Store interface {
	List(ctx context.Context) ([]domain.Bug, error)
	Get(ctx context.Context, id string) (domain.Bug, error)
	Create(ctx context.Context, in domain.CreateInput) (domain.Bug, error)
	Update(ctx context.Context, in domain.UpdateInput) (domain.Bug, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the bugs matching q.
func (s *Service) List(ctx context.Context, q domain.ListQuery) ([]domain.Bug, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(all), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Bug, error) {
	return s.store.Get(ctx, id)
}

// Create normalizes and validates the input before it reaches the store.
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (domain.Bug, error) {
	in = in.Normalize()
	if err := domain.ValidateCreate(in); err != nil {
		return domain.Bug{}, err
	}
	return s.store.Create(ctx, in)
}

// Update validates only the fields present in the update.
func (s *Service) Update(ctx context.Context, in domain.UpdateInput) (domain.Bug, error) {
	in = in.Normalize()
	if err := domain.ValidateUpdate(in); err != nil {
		return domain.Bug{}, err
	}
	return s.store.Update(ctx, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
