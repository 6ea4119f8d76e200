package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"rental-browser/feed"
	"rental-browser/models"
)

// CSVWriter writes listings in the feed format, so an export can be published
// and loaded back as a sheet. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	closer io.Closer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return &CSVWriter{closer: f, writer: csv.NewWriter(f)}, nil
}

// NewCSVStreamWriter writes to w, which is not closed by Close.
func NewCSVStreamWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{closer: nopCloser{}, writer: csv.NewWriter(w)}
}

// Write emits the header row followed by one row per listing.
func (c *CSVWriter) Write(_ context.Context, listings []models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writer.Write(feed.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, l := range listings {
		if err := c.writer.Write(feedRow(l)); err != nil {
			return fmt.Errorf("csv: write row %s: %w", l.ID, err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// feedRow renders l in feed column order. Numbers that defaulted to zero are
// written as empty cells so a reload reports the same gaps.
func feedRow(l models.Listing) []string {
	return []string{
		l.ID,
		l.Title,
		l.District,
		formatAmount(l.Price, l.Gaps.Has(models.GapPrice)),
		formatBeds(l.Beds, l.Gaps.Has(models.GapBeds)),
		formatAmount(l.Size, l.Gaps.Has(models.GapSize)),
		l.Address,
		strings.Join(l.Tags, ", "),
	}
}

func formatAmount(v float64, gap bool) string {
	if gap {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBeds(v int, gap bool) string {
	if gap {
		return ""
	}
	return strconv.Itoa(v)
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.closer.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

var _ ListingWriter = (*CSVWriter)(nil)
