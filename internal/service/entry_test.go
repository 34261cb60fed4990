package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/store"
)

func newEntryService(t *testing.T) (*EntryService, *model.User, store.Store) {
	t.Helper()
	st := newTestStore(t)
	user, err := st.Users().Create(context.Background(), &model.User{
		Username: "alice", Email: "a@x.com", PasswordHash: "x",
	})
	require.NoError(t, err)
	return NewEntryService(st, zerolog.Nop()), user, st
}

func TestCreateEntryDefaults(t *testing.T) {
	svc, user, _ := newEntryService(t)
	ctx := context.Background()

	before := time.Now()
	entry, err := svc.Create(ctx, user.ID, CreateEntryInput{
		Title: "day one", Content: "text", Mood: model.MoodHappy,
	})
	require.NoError(t, err)
	require.NotNil(t, entry.Tags)
	require.Empty(t, entry.Tags)
	require.False(t, entry.Date.Before(before.Add(-time.Second)))
	require.False(t, entry.Date.After(time.Now().Add(time.Second)))
}

func TestListClampsPageAndLimit(t *testing.T) {
	svc, user, _ := newEntryService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, user.ID, CreateEntryInput{
			Title: "t", Content: "c", Mood: model.MoodNeutral,
		})
		require.NoError(t, err)
	}

	// Zero values fall back to page 1, limit 10.
	_, pg, err := svc.List(ctx, model.ListEntriesRequest{UserID: user.ID})
	require.NoError(t, err)
	require.Equal(t, 1, pg.Page)
	require.Equal(t, 10, pg.Limit)
	require.EqualValues(t, 3, pg.Total)
	require.Equal(t, 1, pg.Pages)

	// Oversized limits clamp to 100, negatives to the defaults.
	_, pg, err = svc.List(ctx, model.ListEntriesRequest{UserID: user.ID, Page: -5, Limit: 10000})
	require.NoError(t, err)
	require.Equal(t, 1, pg.Page)
	require.Equal(t, 100, pg.Limit)
}

func TestListPagesCount(t *testing.T) {
	svc, user, _ := newEntryService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, user.ID, CreateEntryInput{
			Title: "t", Content: "c", Mood: model.MoodNeutral,
		})
		require.NoError(t, err)
	}

	entries, pg, err := svc.List(ctx, model.ListEntriesRequest{UserID: user.ID, Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 3, pg.Pages)

	// A page past the end is empty but still reports totals.
	entries, pg, err = svc.List(ctx, model.ListEntriesRequest{UserID: user.ID, Page: 9, Limit: 2})
	require.NoError(t, err)
	require.Empty(t, entries)
	require.EqualValues(t, 5, pg.Total)
}

func TestGetHidesForeignEntries(t *testing.T) {
	svc, user, st := newEntryService(t)
	ctx := context.Background()

	other, err := st.Users().Create(ctx, &model.User{Username: "bob", Email: "b@x.com", PasswordHash: "x"})
	require.NoError(t, err)

	entry, err := svc.Create(ctx, other.ID, CreateEntryInput{
		Title: "secret", Content: "c", Mood: model.MoodSad,
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, user.ID, entry.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	got, err := svc.Get(ctx, other.ID, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.ID, got.ID)
}

func TestUpdateEntryPartial(t *testing.T) {
	svc, user, _ := newEntryService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, user.ID, CreateEntryInput{
		Title: "before", Content: "original", Mood: model.MoodHappy, Tags: []string{"a"},
	})
	require.NoError(t, err)

	title := "after"
	mood := model.MoodExcited
	updated, err := svc.Update(ctx, entry, UpdateEntryInput{Title: &title, Mood: &mood})
	require.NoError(t, err)
	require.Equal(t, "after", updated.Title)
	require.Equal(t, model.MoodExcited, updated.Mood)
	require.Equal(t, "original", updated.Content)
	require.Equal(t, []string{"a"}, updated.Tags)
}

func TestDeleteEntry(t *testing.T) {
	svc, user, _ := newEntryService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, user.ID, CreateEntryInput{
		Title: "t", Content: "c", Mood: model.MoodAnxious,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, entry.ID))
	_, err = svc.Get(ctx, user.ID, entry.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, entry.ID), model.ErrNotFound)
}

func TestMoodStats(t *testing.T) {
	svc, user, _ := newEntryService(t)
	ctx := context.Background()

	for _, m := range []model.Mood{model.MoodHappy, model.MoodHappy, model.MoodPeaceful} {
		_, err := svc.Create(ctx, user.ID, CreateEntryInput{Title: "t", Content: "c", Mood: m})
		require.NoError(t, err)
	}

	stats, err := svc.MoodStats(ctx, user.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, stats, 2)
}
