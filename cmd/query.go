package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"rental-browser/models"
	"rental-browser/services"
)

// queryFlags mirror the query parameters of the listing endpoint.
func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Text to look for in title or district",
		},
		&cli.StringFlag{
			Name:  "beds",
			Usage: "Bedrooms: any, studio or a number",
			Value: services.AnyBeds,
		},
		&cli.StringFlag{
			Name:  "min",
			Usage: "Minimum price (inclusive)",
		},
		&cli.StringFlag{
			Name:  "max",
			Usage: "Maximum price (inclusive)",
		},
		&cli.StringFlag{
			Name:  "district",
			Usage: "Exact district, or all",
			Value: services.AllDistricts,
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "price-asc, price-desc, size-asc or size-desc",
			Value: services.SortPriceAsc,
		},
	}
}

func paramsFromFlags(ctx *cli.Context) services.Params {
	return services.Params{
		Text:     ctx.String("query"),
		Beds:     ctx.String("beds"),
		MinPrice: ctx.String("min"),
		MaxPrice: ctx.String("max"),
		District: ctx.String("district"),
		Sort:     ctx.String("sort"),
	}
}

func printListings(w io.Writer, listings []models.Listing) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDISTRICT\tPRICE\tBEDS\tSIZE\tTAGS")
	for _, l := range listings {
		beds := fmt.Sprint(l.Beds)
		if l.IsStudio() {
			beds = "studio"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Title, l.District,
			amount(l.Price, l.Gaps.Has(models.GapPrice)),
			beds,
			amount(l.Size, l.Gaps.Has(models.GapSize)),
			strings.Join(l.Tags, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d result(s)\n", len(listings))
	return err
}

func amount(v float64, gap bool) string {
	if gap {
		return "-"
	}
	return fmt.Sprintf("%.0f", v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
