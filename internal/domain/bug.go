package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a bug identifier does not exist in the store.
var ErrNotFound = errors.New("bug not found")

// Status is the lifecycle stage of a bug.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	default:
		return false
	}
}

// ParseStatus accepts the wire name of a status, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	s := Status(normalizeEnum(raw))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q (expected open, in-progress or resolved)", raw)
	}
	return s, nil
}

// Priority is the urgency ranking of a bug.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities for sorting: high=3, medium=2, low=1, anything else 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ParsePriority accepts the wire name of a priority, case-insensitively.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(normalizeEnum(raw))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (expected low, medium or high)", raw)
	}
	return p, nil
}

// Bug is a single tracked issue.
type Bug struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store and never changes.
	ID string `json:"id"`

	// ─────────────────────────────
	// Content (editable)
	// ─────────────────────────────

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`

	// ─────────────────────────────
	// Timestamps
	// ─────────────────────────────

	// CreatedAt is set once when the store creates the bug.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every successful create or update.
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput carries the caller-settable fields of a new bug.
// The store assigns the ID, status and timestamps.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// UpdateInput identifies a bug and the fields to merge onto it.
// Nil fields are left untouched.
type UpdateInput struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
}

// Normalize trims the text fields and lowercases the priority, matching
// how ParsePriority reads query values. Unknown priorities are kept for
// validation to report.
func (in CreateInput) Normalize() CreateInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Priority = Priority(normalizeEnum(string(in.Priority)))
	return in
}

// Normalize is the UpdateInput counterpart of CreateInput.Normalize. Only
// provided fields are touched.
func (in UpdateInput) Normalize() UpdateInput {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		in.Description = &d
	}
	if in.Status != nil {
		s := Status(normalizeEnum(string(*in.Status)))
		in.Status = &s
	}
	if in.Priority != nil {
		p := Priority(normalizeEnum(string(*in.Priority)))
		in.Priority = &p
	}
	return in
}

func normalizeEnum(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsEmpty reports whether the update carries no field to merge.
func (in UpdateInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil && in.Priority == nil
}

// Apply merges the provided fields onto b and returns the result.
// UpdatedAt is not touched; the store owns the clock.
func (in UpdateInput) Apply(b Bug) Bug {
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.Status != nil {
		b.Status = *in.Status
	}
	if in.Priority != nil {
		b.Priority = *in.Priority
	}
	return b
}

// NotFound wraps ErrNotFound with the missing identifier.
func NotFound(id string) error {
	return fmt.Errorf("bug %q: %w", id, ErrNotFound)
}
