package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"rental-browser/models"
	"rental-browser/utils"
)

// tagSepRegexp splits a tags cell on commas with optional surrounding whitespace.
var tagSepRegexp = regexp.MustCompile(`\s*,\s*`)

// Cleaner transforms RawListings into fully typed Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean normalizes every raw row. It never drops a row: cells that cannot be
// read fall back to their defaults, so a bad feed still yields one listing per row.
func (c *Cleaner) Clean(raw []*models.RawListing) []models.Listing {
	result := make([]models.Listing, 0, len(raw))
	gaps := 0

	for _, r := range raw {
		l := c.cleanOne(r)
		if l.Gaps != 0 {
			gaps++
			c.logger.Debug("[cleaner] Row %d (%q) defaulted %v to 0", r.Row, l.Title, l.Gaps.Names())
		}
		result = append(result, l)
	}

	c.logger.Info("[cleaner] Normalized %d listings (%d with numeric gaps)", len(result), gaps)
	return result
}

func (c *Cleaner) cleanOne(r *models.RawListing) models.Listing {
	l := models.Listing{
		ID:       r.ID,
		Title:    r.Title,
		District: r.District,
		Address:  r.Address,
		Tags:     parseTags(r.Tags),
	}

	if l.ID == "" {
		l.ID = strconv.Itoa(r.Row)
	}
	if l.Title == "" {
		l.Title = models.UntitledListing
	}

	var ok bool
	if l.Price, ok = parseAmount(r.Price); !ok {
		l.Gaps |= models.GapPrice
	}
	if l.Size, ok = parseAmount(r.Size); !ok {
		l.Gaps |= models.GapSize
	}
	if l.Beds, ok = parseBeds(r.Beds); !ok {
		l.Gaps |= models.GapBeds
	}

	return l
}

// parseAmount reads a non-negative number. Empty, unparseable, negative and
// non-finite values yield 0 and ok=false.
func parseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// parseBeds reads a bedroom count, truncating fractional values ("2.5" -> 2).
func parseBeds(raw string) (int, bool) {
	v, ok := parseAmount(raw)
	if !ok || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// parseTags splits a tags cell, dropping empty and repeated tags while
// keeping first-seen order. The result is never nil.
func parseTags(raw string) []string {
	parts := tagSepRegexp.Split(raw, -1)
	tags := lo.Uniq(lo.Compact(lo.Map(parts, func(p string, _ int) string {
		return strings.TrimSpace(p)
	})))
	if tags == nil {
		return []string{}
	}
	return tags
}
