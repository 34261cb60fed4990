package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/store"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// CreateEntryInput carries caller-supplied fields for a new entry.
// Tags defaults to empty; Date defaults to the creation time.
type CreateEntryInput struct {
	Title   string
	Content string
	Mood    model.Mood
	Tags    []string
	Date    *time.Time
}

// UpdateEntryInput is a partial update: nil fields retain prior values.
type UpdateEntryInput struct {
	Title   *string
	Content *string
	Mood    *model.Mood
	Tags    []string
	Date    *time.Time
}

// EntryService handles journal entry CRUD and aggregation.
type EntryService struct {
	store store.Store
	log   zerolog.Logger
}

func NewEntryService(st store.Store, log zerolog.Logger) *EntryService {
	return &EntryService{store: st, log: log}
}

func (s *EntryService) Create(ctx context.Context, userID uuid.UUID, in CreateEntryInput) (*model.Entry, error) {
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	entry, err := s.store.Entries().Create(ctx, &model.Entry{
		UserID:  userID,
		Title:   in.Title,
		Content: in.Content,
		Mood:    in.Mood,
		Tags:    tags,
		Date:    date,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("entry_id", entry.ID.String()).
		Msg("entry created")
	return entry, nil
}

// List returns one page of the caller's entries, newest first, plus the
// pagination block describing the full filtered set.
func (s *EntryService) List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, *model.Pagination, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = defaultPageLimit
	}
	if req.Limit > maxPageLimit {
		req.Limit = maxPageLimit
	}

	entries, total, err := s.store.Entries().List(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	return entries, &model.Pagination{
		Total: total,
		Page:  req.Page,
		Pages: int(math.Ceil(float64(total) / float64(req.Limit))),
		Limit: req.Limit,
	}, nil
}

// Get returns the entry only when it belongs to userID. Missing and
// owned-by-other both surface as model.ErrNotFound so callers cannot probe
// for other users' entry ids.
func (s *EntryService) Get(ctx context.Context, userID, entryID uuid.UUID) (*model.Entry, error) {
	return s.store.Entries().GetOwned(ctx, userID, entryID)
}

// Update applies a partial update to an entry whose ownership the caller
// has already verified.
func (s *EntryService) Update(ctx context.Context, entry *model.Entry, in UpdateEntryInput) (*model.Entry, error) {
	updated := *entry
	if in.Title != nil {
		updated.Title = *in.Title
	}
	if in.Content != nil {
		updated.Content = *in.Content
	}
	if in.Mood != nil {
		updated.Mood = *in.Mood
	}
	if in.Tags != nil {
		updated.Tags = in.Tags
	}
	if in.Date != nil {
		updated.Date = *in.Date
	}

	out, err := s.store.Entries().Update(ctx, &updated)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("entry_id", out.ID.String()).Msg("entry updated")
	return out, nil
}

// Delete removes an entry permanently. No tombstone is kept.
func (s *EntryService) Delete(ctx context.Context, entryID uuid.UUID) error {
	if err := s.store.Entries().Delete(ctx, entryID); err != nil {
		return err
	}
	s.log.Info().Str("entry_id", entryID.String()).Msg("entry deleted")
	return nil
}

// MoodStats aggregates per-mood counts over the caller's entries in the
// optional inclusive date range.
func (s *EntryService) MoodStats(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.MoodCount, error) {
	return s.store.Entries().MoodCounts(ctx, userID, start, end)
}
