package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-browser/models"
)

type loadResult struct {
	listings []models.Listing
	err      error
}

// gatedLoader blocks every Load until the test releases it with a result.
type gatedLoader struct {
	mu      sync.Mutex
	started chan struct{}
	gates   []chan loadResult
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{started: make(chan struct{}, 16)}
}

func (g *gatedLoader) Load(ctx context.Context) ([]models.Listing, error) {
	gate := make(chan loadResult, 1)
	g.mu.Lock()
	g.gates = append(g.gates, gate)
	g.mu.Unlock()
	g.started <- struct{}{}

	r := <-gate
	return r.listings, r.err
}

func (g *gatedLoader) release(i int, r loadResult) {
	g.mu.Lock()
	gate := g.gates[i]
	g.mu.Unlock()
	gate <- r
}

type staticLoader struct {
	listings []models.Listing
	err      error
}

func (s staticLoader) Load(context.Context) ([]models.Listing, error) {
	return s.listings, s.err
}

func listingsWithIDs(ids ...string) []models.Listing {
	out := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Listing{ID: id, Title: id, Tags: []string{}})
	}
	return out
}

func TestSessionInitialSnapshot(t *testing.T) {
	s := NewSession(staticLoader{}, nil, newTestLogger())
	snap := s.Snapshot()

	assert.NotNil(t, snap.Listings)
	assert.Empty(t, snap.Listings)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
	assert.Zero(t, snap.Generation)
}

func TestSessionRefreshSuccess(t *testing.T) {
	s := NewSession(staticLoader{listings: listingsWithIDs("1", "2")}, listingsWithIDs("demo"), newTestLogger())

	require.NoError(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, []string{"1", "2"}, ids(snap.Listings))
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestSessionRefreshFailureKeepsCollection(t *testing.T) {
	loader := &staticLoader{listings: listingsWithIDs("1")}
	s := NewSession(loader, nil, newTestLogger())
	require.NoError(t, s.Refresh(context.Background()))

	loader.listings, loader.err = nil, errors.New("fetch failed: 503")
	err := s.Refresh(context.Background())

	require.Error(t, err)
	snap := s.Snapshot()
	assert.Equal(t, []string{"1"}, ids(snap.Listings))
	assert.Equal(t, "fetch failed: 503", snap.Err)
	assert.False(t, snap.Loading)
	assert.Equal(t, uint64(1), snap.Generation)

	loader.listings, loader.err = listingsWithIDs("2"), nil
	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.Snapshot().Err)
}

func TestSessionFailureWithEmptyMessage(t *testing.T) {
	s := NewSession(staticLoader{err: errors.New("")}, nil, newTestLogger())

	require.Error(t, s.Refresh(context.Background()))
	assert.Equal(t, genericLoadError, s.Snapshot().Err)
}

func TestSessionStaleLoadIsDiscarded(t *testing.T) {
	loader := newGatedLoader()
	s := NewSession(loader, nil, newTestLogger())

	first := s.RefreshAsync(context.Background())
	<-loader.started
	second := s.RefreshAsync(context.Background())
	<-loader.started

	assert.True(t, s.Snapshot().Loading)

	loader.release(1, loadResult{listings: listingsWithIDs("new")})
	require.NoError(t, <-second)

	loader.release(0, loadResult{listings: listingsWithIDs("old")})
	assert.ErrorIs(t, <-first, ErrSuperseded)

	snap := s.Snapshot()
	assert.Equal(t, []string{"new"}, ids(snap.Listings))
	assert.Equal(t, uint64(2), snap.Generation)
	assert.False(t, snap.Loading)
}

func TestSessionStaleFailureIsDiscarded(t *testing.T) {
	loader := newGatedLoader()
	s := NewSession(loader, listingsWithIDs("demo"), newTestLogger())

	first := s.RefreshAsync(context.Background())
	<-loader.started
	second := s.RefreshAsync(context.Background())
	<-loader.started

	loader.release(0, loadResult{err: errors.New("timeout")})
	assert.ErrorIs(t, <-first, ErrSuperseded)

	snap := s.Snapshot()
	assert.Empty(t, snap.Err)
	assert.True(t, snap.Loading)

	loader.release(1, loadResult{listings: listingsWithIDs("1")})
	require.NoError(t, <-second)
}

func TestSessionCloseDiscardsInFlightLoad(t *testing.T) {
	loader := newGatedLoader()
	s := NewSession(loader, listingsWithIDs("demo"), newTestLogger())

	done := s.RefreshAsync(context.Background())
	<-loader.started
	s.Close()

	loader.release(0, loadResult{listings: listingsWithIDs("late")})
	assert.ErrorIs(t, <-done, ErrSessionClosed)

	snap := s.Snapshot()
	assert.Equal(t, []string{"demo"}, ids(snap.Listings))
	assert.False(t, snap.Loading)
}

func TestSessionRefreshAfterClose(t *testing.T) {
	s := NewSession(staticLoader{listings: listingsWithIDs("1")}, nil, newTestLogger())
	s.Close()

	assert.ErrorIs(t, s.Refresh(context.Background()), ErrSessionClosed)
	assert.ErrorIs(t, <-s.RefreshAsync(context.Background()), ErrSessionClosed)
}
