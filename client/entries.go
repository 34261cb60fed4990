package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type entryResponse struct {
	Message string `json:"message"`
	Entry   *Entry `json:"entry"`
}

type listResponse struct {
	Message    string     `json:"message"`
	Entries    []Entry    `json:"entries"`
	Pagination Pagination `json:"pagination"`
}

type statsResponse struct {
	Message string      `json:"message"`
	Stats   []MoodCount `json:"stats"`
}

func (p ListEntriesParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Mood != "" {
		q.Set("mood", p.Mood)
	}
	if p.StartDate != nil {
		q.Set("startDate", p.StartDate.Format(time.RFC3339))
	}
	if p.EndDate != nil {
		q.Set("endDate", p.EndDate.Format(time.RFC3339))
	}
	return q
}

// CreateEntry creates a journal entry for the authenticated user.
func (c *Client) CreateEntry(ctx context.Context, req CreateEntryRequest) (*Entry, error) {
	var resp entryResponse
	if err := c.do(ctx, http.MethodPost, "/api/entries", nil, req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

// ListEntries returns one page of the user's entries, newest first. This is
// the only operation with an automatic retry: a single bounded backoff pass
// on transient failures, because the list view is the one surface that
// refreshes in the background.
func (c *Client) ListEntries(ctx context.Context, params ListEntriesParams) (*EntriesPage, error) {
	var page *EntriesPage

	operation := func() error {
		var resp listResponse
		if err := c.do(ctx, http.MethodGet, "/api/entries", params.query(), nil, &resp, http.StatusOK); err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		page = &EntriesPage{Entries: resp.Entries, Pagination: resp.Pagination}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return page, nil
}

// GetEntry fetches a single entry. The server answers 404 both for entries
// that do not exist and entries owned by someone else.
func (c *Client) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var resp entryResponse
	if err := c.do(ctx, http.MethodGet, "/api/entries/"+id, nil, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

// UpdateEntry applies a partial update to an owned entry.
func (c *Client) UpdateEntry(ctx context.Context, id string, req UpdateEntryRequest) (*Entry, error) {
	var resp entryResponse
	if err := c.do(ctx, http.MethodPut, "/api/entries/"+id, nil, req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

// DeleteEntry permanently removes an owned entry.
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/entries/"+id, nil, nil, nil, http.StatusOK)
}

// MoodStats returns per-mood counts over the optional inclusive date range.
// Moods without entries are omitted from the result.
func (c *Client) MoodStats(ctx context.Context, startDate, endDate *time.Time) ([]MoodCount, error) {
	q := url.Values{}
	if startDate != nil {
		q.Set("startDate", startDate.Format(time.RFC3339))
	}
	if endDate != nil {
		q.Set("endDate", endDate.Format(time.RFC3339))
	}

	var resp statsResponse
	if err := c.do(ctx, http.MethodGet, "/api/entries/stats", q, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Stats, nil
}
