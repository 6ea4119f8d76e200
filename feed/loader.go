package feed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rental-browser/models"
	"rental-browser/observability"
	"rental-browser/utils"
)

// Loader runs one load attempt against a Source and records how it went.
// There are no retries: a failed attempt is reported and the caller decides.
type Loader struct {
	source Source
	logger *utils.Logger
}

// NewLoader creates a Loader for src.
func NewLoader(src Source, logger *utils.Logger) *Loader {
	return &Loader{source: src, logger: logger}
}

// Source returns the underlying source name.
func (l *Loader) Source() string { return l.source.Name() }

// Load performs a single load. The returned slice is freshly allocated and
// not shared with any earlier result.
func (l *Loader) Load(ctx context.Context) ([]models.Listing, error) {
	log := l.logger.WithFields(utils.Fields{
		"load_id": uuid.NewString(),
		"source":  l.source.Name(),
	})
	start := time.Now()

	listings, err := l.source.Load(ctx)
	elapsed := time.Since(start)
	observability.FeedLoadDuration.WithLabelValues(l.source.Name()).Observe(elapsed.Seconds())

	if err != nil {
		observability.FeedLoadsTotal.WithLabelValues(l.source.Name(), outcome(err)).Inc()
		log.Error("[feed] Load failed after %v: %v", elapsed, err)
		return nil, err
	}

	observability.FeedLoadsTotal.WithLabelValues(l.source.Name(), observability.OutcomeOK).Inc()
	log.Info("[feed] Loaded %d listings in %v", len(listings), elapsed)
	return listings, nil
}

func outcome(err error) string {
	var fe *FetchError
	var pe *ParseError
	switch {
	case errors.As(err, &fe):
		return observability.OutcomeFetchError
	case errors.As(err, &pe):
		return observability.OutcomeParseError
	}
	return observability.OutcomeError
}
