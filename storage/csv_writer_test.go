package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-browser/feed"
	"rental-browser/models"
	"rental-browser/services"
	"rental-browser/utils"
)

func reload(t *testing.T, text string) []models.Listing {
	t.Helper()
	raw, missing, err := feed.RowsToRaw(feed.ParseCSV(text))
	require.NoError(t, err)
	require.Empty(t, missing)
	return services.NewCleaner(utils.NewDiscardLogger()).Clean(raw)
}

func TestCSVWriterExportLoadsBack(t *testing.T) {
	bundled, err := feed.Bundled()
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewCSVStreamWriter(&buf)
	require.NoError(t, w.Write(context.Background(), bundled))
	require.NoError(t, w.Close())

	assert.Equal(t, bundled, reload(t, buf.String()))
}

func TestCSVWriterQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVStreamWriter(&buf)
	require.NoError(t, w.Write(context.Background(), []models.Listing{{
		ID: "7", Title: "Loft", District: "Center", Price: 1200.5, Beds: 2, Size: 70,
		Address: "Center, Sofia", Tags: []string{"Balcony", "Parking"},
	}}))

	assert.Equal(t,
		"id,title,district,price,beds,size,address,tags\n"+
			"7,Loft,Center,1200.5,2,70,\"Center, Sofia\",\"Balcony, Parking\"\n",
		buf.String())
}

func TestCSVWriterKeepsGapsEmpty(t *testing.T) {
	listing := models.Listing{
		ID: "1", Title: models.UntitledListing, Tags: []string{},
		Gaps: models.GapPrice | models.GapBeds | models.GapSize,
	}

	row := feedRow(listing)
	assert.Equal(t, []string{"1", "Untitled", "", "", "", "", "", ""}, row)

	var buf bytes.Buffer
	require.NoError(t, NewCSVStreamWriter(&buf).Write(context.Background(), []models.Listing{listing}))
	assert.Equal(t, []models.Listing{listing}, reload(t, buf.String()))
}

func TestCSVWriterCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "listings.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), nil))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,title,district,price,beds,size,address,tags\n", string(data))
}
