// Package seed provides the initial bug set: a built-in default or a YAML file.
package seed

import (
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
)

// Default returns the built-in seed, one bug per status, with timestamps
// relative to now. Newest-first order is not implied; it is the demo order.
func Default(now time.Time) []domain.Bug {
	const day = 24 * time.Hour
	return []domain.Bug{
		{
			ID:          "1",
			Title:       "Login button not working",
			Description: "Users can't log in using the main login button in Chrome",
			Status:      domain.StatusOpen,
			Priority:    domain.PriorityHigh,
			CreatedAt:   now.Add(-2 * day),
			UpdatedAt:   now.Add(-2 * day),
		},
		{
			ID:          "2",
			Title:       "Pagination breaks on mobile",
			Description: "The pagination controls overlap with content on screens smaller than 375px width",
			Status:      domain.StatusInProgress,
			Priority:    domain.PriorityMedium,
			CreatedAt:   now.Add(-5 * day),
			UpdatedAt:   now.Add(-12 * time.Hour),
		},
		{
			ID:          "3",
			Title:       "Profile images not loading",
			Description: "User profile images fail to load in the dashboard view",
			Status:      domain.StatusResolved,
			Priority:    domain.PriorityLow,
			CreatedAt:   now.Add(-10 * day),
			UpdatedAt:   now.Add(-1 * day),
		},
	}
}
