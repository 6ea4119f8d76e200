package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publishedSheet = `<!DOCTYPE html>
<html><body>
<div id="sheets-viewport"><table class="waffle">
<thead><tr><th class="row-header freezebar-origin-ltr"></th><th class="column-headers-background">A</th><th class="column-headers-background">B</th><th class="column-headers-background">C</th></tr></thead>
<tbody>
<tr><th class="row-headers-background"><div>1</div></th><td>id</td><td>title</td><td>address</td></tr>
<tr><th class="row-headers-background"></th><td></td><td></td><td></td></tr>
<tr><th class="row-headers-background"><div>2</div></th><td>1</td><td> Loft </td><td>Center, Sofia</td></tr>
</tbody></table></div>
</body></html>`

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"<!DOCTYPE html><html></html>", true},
		{"  \n<html lang=\"en\">", true},
		{"<table><tr><td>x</td></tr></table>", true},
		{"id,title\n1,<table>", false},
		{"id,title,address\n", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, looksLikeHTML(tt.body), tt.body)
	}
}

func TestParseHTMLTable(t *testing.T) {
	rows, err := ParseHTMLTable(publishedSheet)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"id", "title", "address"},
		{"1", "Loft", "Center, Sofia"},
	}, rows)
}

func TestParseHTMLTableWithoutRows(t *testing.T) {
	_, err := ParseHTMLTable("<html><body><p>nothing here</p></body></html>")

	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParseHTMLTableNormalizesLikeCSV(t *testing.T) {
	html := `<table>
<tr><td>id</td><td>title</td><td>price</td><td>address</td></tr>
<tr><td>1</td><td>Loft</td><td>980</td><td>Center, Sofia</td></tr>
</table>`
	csv := "id,title,price,address\n1,Loft,980,\"Center, Sofia\"\n"

	fromHTML, err := ParseHTMLTable(html)
	require.NoError(t, err)

	assert.Equal(t, ParseCSV(csv), fromHTML)
}
