package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey selects the field bugs are ordered by.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByPriority SortKey = "priority"
)

// SortOrder selects ascending or descending order.
type SortOrder string

const (
	OrderDesc SortOrder = "desc"
	OrderAsc  SortOrder = "asc"
)

// ParseSortKey maps a wire value to a SortKey. Empty means date.
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByPriority:
		return SortByPriority, nil
	default:
		return "", fmt.Errorf("invalid sort key %q (expected date or priority)", raw)
	}
}

// ParseSortOrder maps a wire value to a SortOrder. Empty means desc.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OrderDesc:
		return OrderDesc, nil
	case OrderAsc:
		return OrderAsc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q (expected asc or desc)", raw)
	}
}

// FilterByStatus keeps the bugs whose status equals status, in input order.
// An empty status returns bugs unchanged.
func FilterByStatus(bugs []Bug, status Status) []Bug {
	if status == "" {
		return bugs
	}
	out := make([]Bug, 0, len(bugs))
	for _, b := range bugs {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// Search keeps the bugs whose title or description contains query,
// case-insensitively. A blank query returns bugs unchanged.
func Search(bugs []Bug, query string) []Bug {
	if strings.TrimSpace(query) == "" {
		return bugs
	}
	q := strings.ToLower(query)
	out := make([]Bug, 0, len(bugs))
	for _, b := range bugs {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Description), q) {
			out = append(out, b)
		}
	}
	return out
}

// Sort returns a new slice ordered by key and order. Zero values mean
// date/desc. Bugs with equal keys keep their input order.
func Sort(bugs []Bug, key SortKey, order SortOrder) []Bug {
	out := make([]Bug, len(bugs))
	copy(out, bugs)

	desc := order != OrderAsc
	less := func(i, j int) bool {
		if key == SortByPriority {
			ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
			if desc {
				return ri > rj
			}
			return ri < rj
		}
		if desc {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	}
	sort.SliceStable(out, less)
	return out
}

// ListQuery is the composed list view: filter, then search, then an
// optional sort.
type ListQuery struct {
	Status  Status
	Search  string
	Sorted  bool
	SortKey SortKey
	Order   SortOrder
}

// Apply runs the query over bugs. The result never aliases the input.
func (q ListQuery) Apply(bugs []Bug) []Bug {
	if q.Sorted {
		return Sort(Search(FilterByStatus(bugs, q.Status), q.Search), q.SortKey, q.Order)
	}
	if q.Status == "" && strings.TrimSpace(q.Search) == "" {
		out := make([]Bug, len(bugs))
		copy(out, bugs)
		return out
	}
	return Search(FilterByStatus(bugs, q.Status), q.Search)
}
