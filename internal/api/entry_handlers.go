package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/api/respond"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/api/validate"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/auth"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/service"
)

// EntryHandler provides HTTP transport for journal entry operations.
type EntryHandler struct {
	entries *service.EntryService
}

func NewEntryHandler(entries *service.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// dateRange extracts optional inclusive startDate/endDate query parameters.
func dateRange(r *http.Request) (start, end *time.Time, err error) {
	if v := r.URL.Query().Get("startDate"); v != "" {
		t, perr := parseDate(v)
		if perr != nil {
			return nil, nil, errors.New("invalid startDate")
		}
		start = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, perr := parseDate(v)
		if perr != nil {
			return nil, nil, errors.New("invalid endDate")
		}
		end = &t
	}
	return start, end, nil
}

// Create POST /api/entries
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "No authorization token provided")
		return
	}

	var req struct {
		Title   string     `json:"title"`
		Content string     `json:"content"`
		Mood    model.Mood `json:"mood"`
		Tags    []string   `json:"tags"`
		Date    *string    `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateEntry(req.Title, req.Content, req.Mood); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	in := service.CreateEntryInput{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Tags:    req.Tags,
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date)
		if err != nil {
			respond.WriteBadRequest(w, "invalid date")
			return
		}
		in.Date = &t
	}

	entry, err := h.entries.Create(r.Context(), user.ID, in)
	if err != nil {
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Entry created successfully",
		"entry":   entry,
	})
}

// List GET /api/entries
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "No authorization token provided")
		return
	}

	q := r.URL.Query()
	req := model.ListEntriesRequest{UserID: user.ID}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}
	if v := q.Get("mood"); v != "" {
		mood := model.Mood(v)
		if err := validate.Mood(mood); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		req.Mood = &mood
	}
	start, end, err := dateRange(r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	req.StartDate, req.EndDate = start, end

	entries, pagination, err := h.entries.List(r.Context(), req)
	if err != nil {
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Entries retrieved successfully",
		"entries":    entries,
		"pagination": pagination,
	})
}

// Get GET /api/entries/{id}
//
// Missing and owned-by-another-user both return 404; see the ownership
// middleware for the contrasting 403 policy on mutations.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "No authorization token provided")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respond.WriteNotFound(w, "Entry not found")
		return
	}

	entry, err := h.entries.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "Entry not found")
			return
		}
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Entry retrieved successfully",
		"entry":   entry,
	})
}

// Update PUT /api/entries/{id} — ownership verified by middleware.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	entry, ok := auth.EntryFrom(r.Context())
	if !ok {
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	var req struct {
		Title   *string     `json:"title"`
		Content *string     `json:"content"`
		Mood    *model.Mood `json:"mood"`
		Tags    []string    `json:"tags"`
		Date    *string     `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Title != nil {
		if err := validate.NonEmpty("title", *req.Title); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if req.Content != nil {
		if err := validate.NonEmpty("content", *req.Content); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if req.Mood != nil {
		if err := validate.Mood(*req.Mood); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}

	in := service.UpdateEntryInput{
		Title:   req.Title,
		Content: req.Content,
		Mood:    req.Mood,
		Tags:    req.Tags,
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date)
		if err != nil {
			respond.WriteBadRequest(w, "invalid date")
			return
		}
		in.Date = &t
	}

	updated, err := h.entries.Update(r.Context(), entry, in)
	if err != nil {
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Entry updated successfully",
		"entry":   updated,
	})
}

// Delete DELETE /api/entries/{id} — ownership verified by middleware.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entry, ok := auth.EntryFrom(r.Context())
	if !ok {
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	if err := h.entries.Delete(r.Context(), entry.ID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "Entry not found")
			return
		}
		respond.WriteInternalError(w, "Internal server error")
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Entry deleted successfully",
	})
}

// MoodStats GET /api/entries/stats
func (h *EntryHandler) MoodStats(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteUnauthorized(w, "No authorization token provided")
		return
	}

	start, end, err := dateRange(r)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	stats, err := h.entries.MoodStats(r.Context(), user.ID, start, end)
	if err != nil {
		respond.WriteInternalError(w, "Internal server error")
		return
	}
	if stats == nil {
		stats = []model.MoodCount{}
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Mood statistics retrieved successfully",
		"stats":   stats,
	})
}
