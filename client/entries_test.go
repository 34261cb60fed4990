package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func stubEntry(id, title string) Entry {
	return Entry{ID: id, Title: title, Content: "c", Mood: MoodHappy, Tags: []string{}}
}

func TestCreateEntry(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/entries", r.URL.Path)
		writeStubJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Entry created successfully",
			"entry":   stubEntry("e-1", "first"),
		})
	})

	entry, err := c.CreateEntry(context.Background(), CreateEntryRequest{
		Title: "first", Content: "c", Mood: MoodHappy,
	})
	require.NoError(t, err)
	require.Equal(t, "e-1", entry.ID)
}

func TestListEntriesQueryParams(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var gotQuery string
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeStubJSON(w, http.StatusOK, map[string]interface{}{
			"entries":    []Entry{stubEntry("e-1", "t")},
			"pagination": Pagination{Total: 1, Page: 2, Pages: 3, Limit: 5},
		})
	})

	page, err := c.ListEntries(context.Background(), ListEntriesParams{
		Page: 2, Limit: 5, Mood: MoodHappy, StartDate: &start,
	})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.EqualValues(t, 1, page.Pagination.Total)

	require.Contains(t, gotQuery, "page=2")
	require.Contains(t, gotQuery, "limit=5")
	require.Contains(t, gotQuery, "mood=happy")
	require.Contains(t, gotQuery, "startDate=")
}

func TestListEntriesRetriesTransientFailures(t *testing.T) {
	var calls int32
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeStubError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		writeStubJSON(w, http.StatusOK, map[string]interface{}{
			"entries":    []Entry{stubEntry("e-1", "t")},
			"pagination": Pagination{Total: 1, Page: 1, Pages: 1, Limit: 10},
		})
	})

	page, err := c.ListEntries(context.Background(), ListEntriesParams{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestListEntriesDoesNotRetryValidationFailures(t *testing.T) {
	var calls int32
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeStubError(w, http.StatusBadRequest, "invalid mood: bogus")
	})

	_, err := c.ListEntries(context.Background(), ListEntriesParams{Mood: "bogus"})
	require.True(t, IsValidation(err))
	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "validation failures must not be retried")
}

func TestGetEntryNotFound(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeStubError(w, http.StatusNotFound, "Entry not found")
	})

	_, err := c.GetEntry(context.Background(), "e-404")
	require.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Entry not found", apiErr.Message)
}

func TestUpdateEntryForbidden(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeStubError(w, http.StatusForbidden, "You do not have permission to access this resource")
	})

	title := "x"
	_, err := c.UpdateEntry(context.Background(), "e-1", UpdateEntryRequest{Title: &title})
	require.True(t, IsForbidden(err))
}

func TestDeleteEntry(t *testing.T) {
	var gotMethod, gotPath string
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		writeStubJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Entry deleted successfully",
		})
	})

	require.NoError(t, c.DeleteEntry(context.Background(), "e-1"))
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/api/entries/e-1", gotPath)
}

func TestMoodStats(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/entries/stats", r.URL.Path)
		writeStubJSON(w, http.StatusOK, map[string]interface{}{
			"stats": []MoodCount{{Mood: MoodHappy, Count: 2}, {Mood: MoodSad, Count: 1}},
		})
	})

	stats, err := c.MoodStats(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.EqualValues(t, 2, stats[0].Count)
}
