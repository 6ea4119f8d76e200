package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"rental-browser/models"
	"rental-browser/utils"
)

type InsightService struct {
	logger *utils.Logger
	now    func() time.Time
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger, now: time.Now}
}

// Generate summarizes a collection. Listings whose price fell back to zero
// are left out of the price statistics.
func (s *InsightService) Generate(listings []models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByDistrict: make(map[string]int),
		GeneratedAt:        s.now(),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var priced []models.Listing
	var perSqmTotal float64
	var perSqmCount int

	for i := range listings {
		l := listings[i]
		if l.IsStudio() {
			report.StudioListings++
		}
		if l.Price > 0 {
			priced = append(priced, l)
			if l.Size > 0 {
				perSqmTotal += l.Price / l.Size
				perSqmCount++
			}
		}
		if l.District != "" {
			report.ListingsByDistrict[l.District]++
		}
		if l.Size > 0 && (report.Largest == nil || l.Size > report.Largest.Size) {
			report.Largest = &listings[i]
		}
	}

	report.PricedListings = len(priced)

	// Price stats (only listings with price > 0)
	if len(priced) > 0 {
		report.MinPrice = priced[0].Price
		report.MaxPrice = priced[0].Price
		report.MostExpensive = &priced[0]
		var total float64
		for i, l := range priced {
			total += l.Price
			if l.Price < report.MinPrice {
				report.MinPrice = l.Price
			}
			if l.Price > report.MaxPrice {
				report.MaxPrice = l.Price
				report.MostExpensive = &priced[i]
			}
		}
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}
	if perSqmCount > 0 {
		report.AveragePricePerSqm = round2(perSqmTotal / float64(perSqmCount))
	}

	s.logger.Debug("[insights] %d listings, %d priced, %d districts",
		report.TotalListings, report.PricedListings, len(report.ListingsByDistrict))
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  RENTAL LISTING INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Studios        : \033[1m%d\033[0m\n", r.StudioListings)
	fmt.Fprintf(w, "  With a price   : \033[1m%d\033[0m\n", r.PricedListings)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics (per month)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%.2f\033[0m\n", r.MaxPrice)
		if r.AveragePricePerSqm > 0 {
			fmt.Fprintf(w, "  Average per m² : \033[1;32m%.2f\033[0m\n", r.AveragePricePerSqm)
		}
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.MostExpensive != nil {
		fmt.Fprintf(w, "\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Title, 50))
		fmt.Fprintf(w, "  District : %s\n", r.MostExpensive.District)
		fmt.Fprintf(w, "  Price    : \033[1;31m%.2f\033[0m\n", r.MostExpensive.Price)
		fmt.Fprintln(w)
	}

	if r.Largest != nil {
		fmt.Fprintf(w, "\033[1;33m  Largest Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.Largest.Title, 50))
		fmt.Fprintf(w, "  District : %s\n", r.Largest.District)
		fmt.Fprintf(w, "  Size     : \033[1m%.0f m²\033[0m\n", r.Largest.Size)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Listings by District\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByDistrict) == 0 {
		fmt.Fprintf(w, "  No district data\n")
	} else {
		type districtCount struct {
			district string
			count    int
		}
		var counts []districtCount
		for d, n := range r.ListingsByDistrict {
			counts = append(counts, districtCount{d, n})
		}
		// Count descending, then name, so output is deterministic.
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].district < counts[j].district
		})
		for _, dc := range counts {
			bar := strings.Repeat("█", dc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(dc.district, 28), bar, dc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
