package feed

import (
	"strings"

	"rental-browser/models"
	"rental-browser/observability"
)

// Columns are the header names a feed is read by, in export order.
var Columns = []string{"id", "title", "district", "price", "beds", "size", "address", "tags"}

// ColumnIndex returns the position of the first header cell whose trimmed,
// lower-cased text equals name, or -1.
func ColumnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == name {
			return i
		}
	}
	return -1
}

// columnMap resolves every known column against a header row once.
type columnMap struct {
	id, title, district, price, beds, size, address, tags int
}

func newColumnMap(header []string) columnMap {
	return columnMap{
		id:       ColumnIndex(header, "id"),
		title:    ColumnIndex(header, "title"),
		district: ColumnIndex(header, "district"),
		price:    ColumnIndex(header, "price"),
		beds:     ColumnIndex(header, "beds"),
		size:     ColumnIndex(header, "size"),
		address:  ColumnIndex(header, "address"),
		tags:     ColumnIndex(header, "tags"),
	}
}

// Missing lists the known columns absent from the header.
func (m columnMap) Missing() []string {
	idx := []int{m.id, m.title, m.district, m.price, m.beds, m.size, m.address, m.tags}
	var missing []string
	for i, v := range idx {
		if v < 0 {
			missing = append(missing, Columns[i])
		}
	}
	return missing
}

// cell returns row[i], or "" when the column is missing or the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// RowsToRaw treats rows[0] as the header and maps each later row onto a
// RawListing. It fails only when there is no header row at all.
func RowsToRaw(rows [][]string) ([]*models.RawListing, []string, error) {
	if len(rows) == 0 {
		return nil, nil, &ParseError{Reason: "document has no header row"}
	}

	cols := newColumnMap(rows[0])
	raw := make([]*models.RawListing, 0, len(rows)-1)

	for i, row := range rows[1:] {
		if len(row) < len(rows[0]) {
			observability.FeedRowsShort.Inc()
		}
		raw = append(raw, &models.RawListing{
			Row:      i + 1,
			ID:       cell(row, cols.id),
			Title:    cell(row, cols.title),
			District: cell(row, cols.district),
			Price:    cell(row, cols.price),
			Beds:     cell(row, cols.beds),
			Size:     cell(row, cols.size),
			Address:  cell(row, cols.address),
			Tags:     cell(row, cols.tags),
		})
	}

	return raw, cols.Missing(), nil
}
