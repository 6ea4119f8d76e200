package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// looksLikeHTML reports whether a fetched body is an HTML page rather than CSV.
// Sheets published "to the web" without output=csv come back as HTML.
func looksLikeHTML(body string) bool {
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.HasPrefix(head, "<table")
}

// chromeClasses mark the row-number and column-letter cells a published
// sheet wraps around the data.
var chromeClasses = []string{"row-headers-background", "column-headers-background", "row-header", "freezebar-cell"}

// ParseHTMLTable reads the first <table> that has at least one row into rows
// of cell texts. Sheet chrome cells are skipped, then blank rows are dropped.
func ParseHTMLTable(body string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &ParseError{Reason: "unreadable HTML: " + err.Error()}
	}

	var rows [][]string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Children().Each(func(_ int, c *goquery.Selection) {
				if isChromeCell(c) {
					return
				}
				cells = append(cells, strings.TrimSpace(c.Text()))
			})
			if len(cells) == 0 || isBlankRow(cells) {
				return
			}
			rows = append(rows, cells)
		})
		return len(rows) == 0
	})

	if len(rows) == 0 {
		return nil, &ParseError{Reason: "HTML document has no table rows"}
	}
	return rows, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func isChromeCell(c *goquery.Selection) bool {
	for _, class := range chromeClasses {
		if c.HasClass(class) {
			return true
		}
	}
	return false
}
