package models

import (
	"strings"
	"time"
)

// UntitledListing is the title given to rows whose title cell is empty.
const UntitledListing = "Untitled"

// Gap marks numeric fields that fell back to zero because the feed had no usable value.
type Gap uint8

const (
	GapPrice Gap = 1 << iota
	GapBeds
	GapSize
)

// Has reports whether every bit of f is set in g.
func (g Gap) Has(f Gap) bool { return g&f == f }

// Names lists the set gaps in field order, e.g. ["price", "size"].
func (g Gap) Names() []string {
	names := make([]string, 0, 3)
	if g.Has(GapPrice) {
		names = append(names, "price")
	}
	if g.Has(GapBeds) {
		names = append(names, "beds")
	}
	if g.Has(GapSize) {
		names = append(names, "size")
	}
	return names
}

// RawListing holds the uncoerced cells of one feed row.
// Cells for missing columns, or beyond the end of a short row, are empty.
type RawListing struct {
	Row      int // 1-based position among the data rows
	ID       string
	Title    string
	District string
	Price    string
	Beds     string
	Size     string
	Address  string
	Tags     string
}

// Listing is a fully normalized rental record. Every field is always set.
type Listing struct {
	ID       string   `json:"id" toml:"id"`
	Title    string   `json:"title" toml:"title"`
	District string   `json:"district" toml:"district"`
	Price    float64  `json:"price" toml:"price"`
	Beds     int      `json:"beds" toml:"beds"`
	Size     float64  `json:"size" toml:"size"`
	Address  string   `json:"address" toml:"address"`
	Tags     []string `json:"tags" toml:"tags"`
	Gaps     Gap      `json:"-" toml:"-"`
}

// IsStudio reports whether the listing has no separate bedroom.
func (l Listing) IsStudio() bool { return l.Beds == 0 }

// InquirySubject is the subject line used for contact links about this listing.
func (l Listing) InquirySubject() string {
	var sb strings.Builder
	sb.WriteString("Inquiry: ")
	sb.WriteString(l.Title)
	sb.WriteString(" (")
	sb.WriteString(l.District)
	sb.WriteString(")")
	return sb.String()
}

// InsightReport holds the computed analytics over a listing collection.
type InsightReport struct {
	TotalListings      int            `json:"total_listings"`
	StudioListings     int            `json:"studio_listings"`
	PricedListings     int            `json:"priced_listings"`
	AveragePrice       float64        `json:"average_price"`
	MinPrice           float64        `json:"min_price"`
	MaxPrice           float64        `json:"max_price"`
	AveragePricePerSqm float64        `json:"average_price_per_sqm"`
	MostExpensive      *Listing       `json:"most_expensive,omitempty"`
	Largest            *Listing       `json:"largest,omitempty"`
	ListingsByDistrict map[string]int `json:"listings_by_district"`
	GeneratedAt        time.Time      `json:"generated_at"`
}
