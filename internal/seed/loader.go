package seed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
)

// Loader reads a seed file. An empty path means the built-in Default seed.
type Loader struct {
	filePath string
}

// NewLoader creates a seed loader for filePath.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Source describes where the seed comes from, for logs.
func (l *Loader) Source() string {
	if l.filePath == "" {
		return "built-in"
	}
	return l.filePath
}

// Load returns the seed bugs with relative timestamps resolved against now.
func (l *Loader) Load(now time.Time) ([]domain.Bug, error) {
	if l.filePath == "" {
		return Default(now), nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return Map(file, now)
}

// Map converts a parsed seed file into bugs, keeping file order. The seed
// must hold at least one bug per status.
func Map(file File, now time.Time) ([]domain.Bug, error) {
	bugs := make([]domain.Bug, 0, len(file.Bugs))
	seen := make(map[string]bool, len(file.Bugs))

	for i, e := range file.Bugs {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("bug #%d: id is required", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("bug %q: duplicate id", id)
		}
		seen[id] = true

		status := domain.StatusOpen
		if e.Status != "" {
			s, err := domain.ParseStatus(e.Status)
			if err != nil {
				return nil, fmt.Errorf("bug %q: %w", id, err)
			}
			status = s
		}

		priority, err := domain.ParsePriority(e.Priority)
		if err != nil {
			return nil, fmt.Errorf("bug %q: %w", id, err)
		}

		created, err := parseMoment(e.Created, now)
		if err != nil {
			return nil, fmt.Errorf("bug %q: created_at: %w", id, err)
		}
		updated := created
		if e.Updated != "" {
			if updated, err = parseMoment(e.Updated, now); err != nil {
				return nil, fmt.Errorf("bug %q: updated_at: %w", id, err)
			}
		}
		if updated.Before(created) {
			return nil, fmt.Errorf("bug %q: updated_at is before created_at", id)
		}

		bugs = append(bugs, domain.Bug{
			ID:          id,
			Title:       strings.TrimSpace(e.Title),
			Description: strings.TrimSpace(e.Description),
			Status:      status,
			Priority:    priority,
			CreatedAt:   created,
			UpdatedAt:   updated,
		})
	}

	if err := checkStatuses(bugs); err != nil {
		return nil, err
	}
	return bugs, nil
}

// checkStatuses requires at least one bug per status.
func checkStatuses(bugs []domain.Bug) error {
	present := make(map[domain.Status]bool, len(domain.Statuses))
	for _, b := range bugs {
		present[b.Status] = true
	}
	for _, s := range domain.Statuses {
		if !present[s] {
			return fmt.Errorf("seed has no %s bug", s)
		}
	}
	return nil
}

// parseMoment accepts an age ("36h", "90m") or an RFC 3339 timestamp.
// Empty means now.
func parseMoment(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}
	if age, err := time.ParseDuration(raw); err == nil {
		if age < 0 {
			return time.Time{}, fmt.Errorf("negative age %q", raw)
		}
		return now.Add(-age), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected age like 48h or RFC 3339)", raw)
	}
	return t, nil
}
