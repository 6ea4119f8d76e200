package feed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"rental-browser/models"
)

//go:embed data/listings.toml
var bundledListings []byte

type staticDocument struct {
	Listings []models.Listing `toml:"listings"`
}

// Bundled returns a fresh copy of the collection compiled into the binary.
func Bundled() ([]models.Listing, error) {
	return decodeStatic(bundledListings)
}

// LoadStaticFile reads a collection from a TOML file in the bundled format.
func LoadStaticFile(path string) ([]models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading static listings: %w", err)
	}
	return decodeStatic(data)
}

func decodeStatic(data []byte) ([]models.Listing, error) {
	var doc staticDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Reason: "static listings: " + err.Error()}
	}
	for i := range doc.Listings {
		if doc.Listings[i].Tags == nil {
			doc.Listings[i].Tags = []string{}
		}
	}
	return doc.Listings, nil
}
