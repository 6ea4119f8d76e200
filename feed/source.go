package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-browser/config"
	"rental-browser/models"
	"rental-browser/services"
	"rental-browser/utils"
)

// Source produces a complete, normalized collection.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.Listing, error)
}

// ListingReader is satisfied by storage backends that can return a stored collection.
type ListingReader interface {
	FetchAll(ctx context.Context) ([]models.Listing, error)
}

// StaticSource serves the bundled collection, or a TOML file when path is set.
type StaticSource struct {
	path string
}

func NewStaticSource(path string) *StaticSource {
	return &StaticSource{path: path}
}

func (s *StaticSource) Name() string { return config.SourceStatic }

func (s *StaticSource) Load(ctx context.Context) ([]models.Listing, error) {
	if s.path != "" {
		return LoadStaticFile(s.path)
	}
	return Bundled()
}

// SheetSource fetches a published spreadsheet and normalizes its rows.
type SheetSource struct {
	url     string
	fetcher Fetcher
	cleaner *services.Cleaner
	logger  *utils.Logger
}

func NewSheetSource(url string, fetcher Fetcher, logger *utils.Logger) *SheetSource {
	return &SheetSource{
		url:     url,
		fetcher: fetcher,
		cleaner: services.NewCleaner(logger),
		logger:  logger,
	}
}

func (s *SheetSource) Name() string { return config.SourceSheet }

func (s *SheetSource) Load(ctx context.Context) ([]models.Listing, error) {
	body, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	// Sheets exported from spreadsheet tools often start with a UTF-8 BOM.
	body = strings.TrimPrefix(body, "\ufeff")

	var rows [][]string
	if looksLikeHTML(body) {
		s.logger.Debug("[feed] Response is HTML, reading first table")
		if rows, err = ParseHTMLTable(body); err != nil {
			return nil, err
		}
	} else {
		rows = ParseCSV(body)
	}

	raw, missing, err := RowsToRaw(rows)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		s.logger.Warn("[feed] Header is missing columns %v, defaults apply", missing)
	}

	return s.cleaner.Clean(raw), nil
}

// RepositorySource reads the collection last mirrored into a database.
type RepositorySource struct {
	repo ListingReader
}

func NewRepositorySource(repo ListingReader) *RepositorySource {
	return &RepositorySource{repo: repo}
}

func (s *RepositorySource) Name() string { return config.SourcePostgres }

func (s *RepositorySource) Load(ctx context.Context) ([]models.Listing, error) {
	return s.repo.FetchAll(ctx)
}

// NewSource builds the Source selected by cfg.DataSource. repo is only
// consulted for the postgres source and may be nil otherwise.
func NewSource(cfg *config.Config, logger *utils.Logger, repo ListingReader) (Source, error) {
	switch cfg.DataSource {
	case config.SourceStatic, "":
		return NewStaticSource(cfg.StaticPath), nil

	case config.SourceSheet:
		if cfg.FeedURL == "" {
			return nil, errors.New("FEED_URL is required when DATA_SOURCE=sheet")
		}
		var fetcher Fetcher
		switch cfg.FeedFetcher {
		case config.FetcherHTTP, "":
			fetcher = NewHTTPFetcher(cfg.FetchTimeout)
		case config.FetcherBrowser:
			fetcher = NewBrowserFetcher(cfg.ChromeBin, cfg.FetchTimeout)
		default:
			return nil, fmt.Errorf("unknown FEED_FETCHER %q", cfg.FeedFetcher)
		}
		return NewSheetSource(cfg.FeedURL, fetcher, logger), nil

	case config.SourcePostgres:
		if repo == nil {
			return nil, errors.New("DATA_SOURCE=postgres needs a database connection")
		}
		return NewRepositorySource(repo), nil
	}

	return nil, fmt.Errorf("unknown DATA_SOURCE %q", cfg.DataSource)
}

var (
	_ Source = (*StaticSource)(nil)
	_ Source = (*SheetSource)(nil)
	_ Source = (*RepositorySource)(nil)
)
