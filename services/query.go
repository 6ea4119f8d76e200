package services

import (
	"cmp"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"rental-browser/models"
)

// Sentinel parameter values meaning "no constraint". An empty District is
// not a sentinel: it selects listings without a district.
const (
	AnyBeds      = "any"
	StudioBeds   = "studio"
	AllDistricts = "all"
)

// Sort keys. Anything else sorts as SortPriceAsc.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortSizeAsc   = "size-asc"
	SortSizeDesc  = "size-desc"
)

// Params are the user-facing query inputs, kept as raw text. They are
// interpreted on every evaluation; malformed values mean "no constraint".
type Params struct {
	Text     string
	Beds     string
	MinPrice string
	MaxPrice string
	District string
	Sort     string
}

// Predicate decides whether a listing belongs in a result.
type Predicate interface {
	Match(l models.Listing) bool
}

// TextPredicate matches a case-insensitive substring of title or district.
type TextPredicate struct {
	needle string // lower-cased; empty matches everything
}

// NewTextPredicate ignores blank text. Otherwise the text is matched as
// typed, surrounding spaces included.
func NewTextPredicate(text string) TextPredicate {
	if strings.TrimSpace(text) == "" {
		return TextPredicate{}
	}
	return TextPredicate{needle: strings.ToLower(text)}
}

func (p TextPredicate) Match(l models.Listing) bool {
	if p.needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), p.needle) ||
		strings.Contains(strings.ToLower(l.District), p.needle)
}

// BedsPredicate matches an exact bedroom count.
type BedsPredicate struct {
	beds int
	open bool
}

func NewBedsPredicate(raw string) BedsPredicate {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "", AnyBeds:
		return BedsPredicate{open: true}
	case StudioBeds:
		return BedsPredicate{beds: 0}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return BedsPredicate{open: true}
	}
	return BedsPredicate{beds: n}
}

func (p BedsPredicate) Match(l models.Listing) bool {
	return p.open || l.Beds == p.beds
}

// PriceBound is an inclusive lower or upper price limit.
type PriceBound struct {
	limit float64
	set   bool
	upper bool
}

// NewMinPrice and NewMaxPrice parse a bound; blank or non-numeric text
// leaves the bound unset.
func NewMinPrice(raw string) PriceBound { return newPriceBound(raw, false) }
func NewMaxPrice(raw string) PriceBound { return newPriceBound(raw, true) }

func newPriceBound(raw string, upper bool) PriceBound {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return PriceBound{upper: upper}
	}
	return PriceBound{limit: v, set: true, upper: upper}
}

func (p PriceBound) Match(l models.Listing) bool {
	if !p.set {
		return true
	}
	if p.upper {
		return l.Price <= p.limit
	}
	return l.Price >= p.limit
}

// DistrictPredicate matches a district exactly, unless it is AllDistricts.
type DistrictPredicate struct {
	district string
}

func NewDistrictPredicate(district string) DistrictPredicate {
	return DistrictPredicate{district: district}
}

func (p DistrictPredicate) Match(l models.Listing) bool {
	if p.district == AllDistricts {
		return true
	}
	return l.District == p.district
}

// Order is a sort field plus direction.
type Order struct {
	Field string // "price" or "size"
	Dir   int    // +1 ascending, -1 descending
}

// ParseOrder reads a sort key such as "size-desc".
func ParseOrder(key string) Order {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case SortPriceDesc:
		return Order{Field: "price", Dir: -1}
	case SortSizeAsc:
		return Order{Field: "size", Dir: 1}
	case SortSizeDesc:
		return Order{Field: "size", Dir: -1}
	}
	return Order{Field: "price", Dir: 1}
}

func (o Order) value(l models.Listing) float64 {
	if o.Field == "size" {
		return l.Size
	}
	return l.Price
}

// Compare returns the sign of a relative to b, already multiplied by the direction.
func (o Order) Compare(a, b models.Listing) int {
	return cmp.Compare(o.value(a), o.value(b)) * o.Dir
}

// Predicates builds the filter chain for p, in evaluation order.
func (p Params) Predicates() []Predicate {
	return []Predicate{
		NewTextPredicate(p.Text),
		NewBedsPredicate(p.Beds),
		NewMinPrice(p.MinPrice),
		NewMaxPrice(p.MaxPrice),
		NewDistrictPredicate(p.District),
	}
}

// Evaluate returns the listings matching every predicate in p, stably sorted
// by p.Sort. The input is never modified and the result is a new slice.
func Evaluate(collection []models.Listing, p Params) []models.Listing {
	preds := p.Predicates()
	out := lo.Filter(collection, func(l models.Listing, _ int) bool {
		for _, pred := range preds {
			if !pred.Match(l) {
				return false
			}
		}
		return true
	})

	order := ParseOrder(p.Sort)
	sort.SliceStable(out, func(i, j int) bool {
		return order.Compare(out[i], out[j]) < 0
	})
	return out
}

// Districts returns the distinct district values in first-appearance order.
func Districts(collection []models.Listing) []string {
	return lo.Uniq(lo.Map(collection, func(l models.Listing, _ int) string {
		return l.District
	}))
}

var (
	_ Predicate = TextPredicate{}
	_ Predicate = BedsPredicate{}
	_ Predicate = PriceBound{}
	_ Predicate = DistrictPredicate{}
)
