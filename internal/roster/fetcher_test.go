package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhwbclub/pulse-backend/internal/roles"
)

type fakeStore struct {
	entries []Entry
	coaches []string
	err     error
	calls   int
}

func (s *fakeStore) RunnersForCoach(_ context.Context, _ int, _ string) ([]Entry, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func (s *fakeStore) ActiveCoaches(_ context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.coaches, nil
}

func TestFetchSortsAndDeduplicates(t *testing.T) {
	store := &fakeStore{entries: []Entry{
		{Email: "z@x.com", DisplayName: "Zoe"},
		{Email: "A@X.com", DisplayName: "Alice"},
		{Email: "a@x.com", DisplayName: "Alice Dup"},
		{Email: "m@x.com", DisplayName: "Alice"},
		{Email: "", DisplayName: "Blank"},
	}}
	f := NewFetcher(store, time.Second)

	got, err := f.Fetch(context.Background(), roles.Coach, 14, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Email: "a@x.com", DisplayName: "Alice"},
		{Email: "m@x.com", DisplayName: "Alice"},
		{Email: "z@x.com", DisplayName: "Zoe"},
	}, got)
}

// Identical inputs yield the identical ordered list.
func TestFetchIsIdempotent(t *testing.T) {
	store := &fakeStore{entries: []Entry{
		{Email: "b@x.com", DisplayName: "Bob"},
		{Email: "a@x.com", DisplayName: "Alice"},
	}}
	f := NewFetcher(store, time.Second)

	first, err := f.Fetch(context.Background(), roles.Coach, 14, "Jane Doe")
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), roles.Coach, 14, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFetchSkipsAthletes(t *testing.T) {
	store := &fakeStore{entries: []Entry{{Email: "a@x.com", DisplayName: "Alice"}}}
	f := NewFetcher(store, time.Second)

	got, err := f.Fetch(context.Background(), roles.Athlete, 14, "Jane Doe")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, store.calls)
}

func TestFetchEmptyCoachNameSkipsQuery(t *testing.T) {
	store := &fakeStore{entries: []Entry{{Email: "a@x.com", DisplayName: "Alice"}}}
	f := NewFetcher(store, time.Second)

	got, err := f.Fetch(context.Background(), roles.Coach, 14, "")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, store.calls)
}

func TestFetchPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("function does not exist")
	f := NewFetcher(&fakeStore{err: boom}, time.Second)

	_, err := f.Fetch(context.Background(), roles.Hybrid, 14, "Jane Doe")
	assert.ErrorIs(t, err, boom)
}

func TestCoachesSorted(t *testing.T) {
	f := NewFetcher(&fakeStore{coaches: []string{"Mark Lee", "Jane Doe"}}, time.Second)

	got, err := f.Coaches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe", "Mark Lee"}, got)
}
