package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"rental-browser/models"
	"rental-browser/observability"
	"rental-browser/utils"
)

var (
	// ErrSessionClosed is returned for loads started or finished after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrSuperseded is returned by a load whose result was dropped because a
	// newer load had started before it finished.
	ErrSuperseded = errors.New("load superseded by a newer load")
)

// genericLoadError is shown when a failed load carries no message.
const genericLoadError = "failed to load listings"

// Loader produces a complete collection in one attempt.
type Loader interface {
	Load(ctx context.Context) ([]models.Listing, error)
}

// Snapshot is a consistent view of the session at one instant.
type Snapshot struct {
	Listings   []models.Listing
	Loading    bool
	Err        string
	Generation uint64 // generation of the load that produced Listings; 0 for the initial collection
	LoadedAt   time.Time
}

// Session owns the current collection. Each load gets the next generation
// number; a finished load is applied only if it is still the newest one and
// the session has not been closed, so a slow stale load can never overwrite a
// newer result.
type Session struct {
	loader Loader
	logger *utils.Logger

	mu       sync.RWMutex
	listings []models.Listing
	loading  bool
	errMsg   string
	issued   uint64
	applied  uint64
	loadedAt time.Time
	closed   bool
	cancels  map[uint64]context.CancelFunc
}

// NewSession creates a session showing initial until the first load lands.
func NewSession(loader Loader, initial []models.Listing, logger *utils.Logger) *Session {
	if initial == nil {
		initial = []models.Listing{}
	}
	observability.ListingsCurrent.Set(float64(len(initial)))
	return &Session{
		loader:   loader,
		logger:   logger,
		listings: initial,
		cancels:  make(map[uint64]context.CancelFunc),
	}
}

// Snapshot returns the current state. The Listings slice must not be modified.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Listings:   s.listings,
		Loading:    s.loading,
		Err:        s.errMsg,
		Generation: s.applied,
		LoadedAt:   s.loadedAt,
	}
}

// Refresh runs one load and applies its result if it is still current.
func (s *Session) Refresh(ctx context.Context) error {
	gen, loadCtx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	listings, loadErr := s.loader.Load(loadCtx)
	return s.finish(gen, listings, loadErr)
}

// RefreshAsync starts a load in the background. The session is marked as
// loading before RefreshAsync returns; the channel yields Refresh's result.
func (s *Session) RefreshAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	gen, loadCtx, err := s.begin(ctx)
	if err != nil {
		done <- err
		close(done)
		return done
	}

	go func() {
		defer close(done)
		listings, loadErr := s.loader.Load(loadCtx)
		done <- s.finish(gen, listings, loadErr)
	}()
	return done
}

// Close disposes of the session. In-flight loads are cancelled and their
// results, successful or not, are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.loading = false
	for gen, cancel := range s.cancels {
		cancel()
		delete(s.cancels, gen)
	}
}

func (s *Session) begin(ctx context.Context) (uint64, context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, nil, ErrSessionClosed
	}

	// Anything still running is now stale.
	for gen, cancel := range s.cancels {
		cancel()
		delete(s.cancels, gen)
	}

	s.issued++
	gen := s.issued
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancels[gen] = cancel
	s.loading = true
	return gen, loadCtx, nil
}

func (s *Session) finish(gen uint64, listings []models.Listing, loadErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.cancels[gen]; ok {
		cancel()
		delete(s.cancels, gen)
	}

	if s.closed {
		observability.StaleLoadsDiscarded.Inc()
		s.logger.Debug("[session] Discarding load %d: session closed", gen)
		return ErrSessionClosed
	}
	if gen != s.issued {
		observability.StaleLoadsDiscarded.Inc()
		s.logger.Debug("[session] Discarding load %d: load %d is newer", gen, s.issued)
		return ErrSuperseded
	}

	s.loading = false
	if loadErr != nil {
		s.errMsg = loadErr.Error()
		if s.errMsg == "" {
			s.errMsg = genericLoadError
		}
		s.logger.Warn("[session] Load %d failed, keeping %d listings from load %d: %v",
			gen, len(s.listings), s.applied, loadErr)
		return loadErr
	}

	if listings == nil {
		listings = []models.Listing{}
	}
	s.listings = listings
	s.errMsg = ""
	s.applied = gen
	s.loadedAt = time.Now()
	observability.ListingsCurrent.Set(float64(len(listings)))
	s.logger.Info("[session] Published %d listings from load %d", len(listings), gen)
	return nil
}
