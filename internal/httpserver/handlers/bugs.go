package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
)

// bugView is a bug as listed: the record plus a human-readable age.
type bugView struct {
	domain.Bug
	UpdatedRelative string `json:"updatedRelative"`
}

func viewsOf(bugs []domain.Bug, now time.Time) []bugView {
	out := make([]bugView, len(bugs))
	for i, b := range bugs {
		out[i] = bugView{Bug: b, UpdatedRelative: domain.FormatRelativeTime(b.UpdatedAt, now)}
	}
	return out
}

// parseListQuery reads status, q, sort and order. The list is only sorted
// when sort or order is given; otherwise store order (newest first) is kept.
func parseListQuery(r *http.Request) (domain.ListQuery, error) {
	v := r.URL.Query()
	var q domain.ListQuery

	if raw := v.Get("status"); raw != "" {
		s, err := domain.ParseStatus(raw)
		if err != nil {
			return q, err
		}
		q.Status = s
	}
	q.Search = v.Get("q")

	if v.Has("sort") || v.Has("order") {
		key, err := domain.ParseSortKey(v.Get("sort"))
		if err != nil {
			return q, err
		}
		order, err := domain.ParseSortOrder(v.Get("order"))
		if err != nil {
			return q, err
		}
		q.Sorted, q.SortKey, q.Order = true, key, order
	}
	return q, nil
}

// ListBugs handles GET /api/bugs.
func ListBugs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseListQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		bugs, err := d.Bugs.List(r.Context(), q)
		if err != nil {
			writeServiceError(d, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, viewsOf(bugs, d.Now()))
	}
}

// GetBug handles GET /api/bugs/{id}.
func GetBug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bug, err := d.Bugs.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(d, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bug)
	}
}

// CreateBug handles POST /api/bugs.
func CreateBug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.CreateInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}

		bug, err := d.Bugs.Create(r.Context(), in)
		if err != nil {
			writeServiceError(d, w, r, err)
			return
		}
		w.Header().Set("Location", "/api/bugs/"+bug.ID)
		writeJSON(w, http.StatusCreated, bug)
	}
}

// UpdateBug handles PATCH /api/bugs/{id}. Absent fields are left unchanged.
func UpdateBug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.UpdateInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		in.ID = chi.URLParam(r, "id")

		bug, err := d.Bugs.Update(r.Context(), in)
		if err != nil {
			writeServiceError(d, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bug)
	}
}

// DeleteBug handles DELETE /api/bugs/{id}.
func DeleteBug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Bugs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeServiceError(d, w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
