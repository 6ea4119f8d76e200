package feed

import (
	"strings"
)

// SplitLines splits a document on LF or CRLF boundaries and drops blank lines.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SplitFields splits one line on commas that are not inside a quoted span.
//
// Every double quote toggles the quoted state; there is no escape sequence and
// no whitespace trimming. One leading and one trailing quote are then removed
// from each field, so `a,"Center, Sofia",b` yields [a, Center, Sofia, b].
func SplitFields(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			field.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, unquote(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	return append(fields, unquote(field.String()))
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

// ParseCSV splits a CSV document into rows of fields.
func ParseCSV(text string) [][]string {
	lines := SplitLines(text)
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, SplitFields(line))
	}
	return rows
}
