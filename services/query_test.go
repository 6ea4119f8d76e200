package services

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"rental-browser/models"
)

func scenarioListings() []models.Listing {
	return []models.Listing{
		{ID: "1", Title: "Modern 1-BR", District: "Lozenets", Price: 980, Beds: 1, Size: 65, Tags: []string{}},
		{ID: "2", Title: "Sunny 2-BR", District: "Mladost 1", Price: 1150, Beds: 2, Size: 88, Tags: []string{}},
		{ID: "3", Title: "Cozy studio", District: "Studentski Grad", Price: 550, Beds: 0, Size: 38, Tags: []string{}},
		{ID: "4", Title: "Designer 2-BR", District: "Center", Price: 1490, Beds: 2, Size: 92, Tags: []string{}},
		{ID: "5", Title: "Family 3-BR", District: "Buxton", Price: 1650, Beds: 3, Size: 120, Tags: []string{}},
	}
}

func ids(listings []models.Listing) []string {
	return lo.Map(listings, func(l models.Listing, _ int) string { return l.ID })
}

func prices(listings []models.Listing) []float64 {
	return lo.Map(listings, func(l models.Listing, _ int) float64 { return l.Price })
}

func TestEvaluateScenario(t *testing.T) {
	collection := scenarioListings()

	t.Run("two bedrooms keeps original order", func(t *testing.T) {
		got := Evaluate(collection, Params{District: AllDistricts, Beds: "2"})
		assert.Equal(t, []string{"2", "4"}, ids(got))
	})

	t.Run("price descending", func(t *testing.T) {
		got := Evaluate(collection, Params{District: AllDistricts, Sort: SortPriceDesc})
		assert.Equal(t, []float64{1650, 1490, 1150, 980, 550}, prices(got))
	})

	t.Run("default sort is price ascending", func(t *testing.T) {
		got := Evaluate(collection, Params{District: AllDistricts})
		assert.Equal(t, []float64{550, 980, 1150, 1490, 1650}, prices(got))
	})

	t.Run("size descending", func(t *testing.T) {
		got := Evaluate(collection, Params{District: AllDistricts, Sort: SortSizeDesc})
		assert.Equal(t, []string{"5", "4", "2", "1", "3"}, ids(got))
	})

	t.Run("unknown sort falls back to price ascending", func(t *testing.T) {
		assert.Equal(t,
			Evaluate(collection, Params{District: AllDistricts, Sort: SortPriceAsc}),
			Evaluate(collection, Params{District: AllDistricts, Sort: "rating-desc"}))
	})
}

func TestEvaluateBeds(t *testing.T) {
	collection := scenarioListings()

	tests := []struct {
		beds string
		want []string
	}{
		{"", []string{"3", "1", "2", "4", "5"}},
		{AnyBeds, []string{"3", "1", "2", "4", "5"}},
		{StudioBeds, []string{"3"}},
		{"0", []string{"3"}},
		{"3", []string{"5"}},
		{"7", []string{}},
		{"two", []string{"3", "1", "2", "4", "5"}},
		{"-1", []string{"3", "1", "2", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.beds, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Evaluate(collection, Params{District: AllDistricts, Beds: tt.beds})))
		})
	}
}

func TestEvaluateStudioMatchesZeroBeds(t *testing.T) {
	collection := append(scenarioListings(),
		models.Listing{ID: "6", Title: "Tiny", Price: 400, Beds: 0, Tags: []string{}})

	got := Evaluate(collection, Params{District: AllDistricts, Beds: StudioBeds})

	want := lo.Filter(collection, func(l models.Listing, _ int) bool { return l.Beds == 0 })
	assert.ElementsMatch(t, ids(want), ids(got))
}

func TestEvaluatePriceBounds(t *testing.T) {
	collection := scenarioListings()

	t.Run("equal bounds select exact price", func(t *testing.T) {
		got := Evaluate(collection, Params{District: AllDistricts, MinPrice: "1150", MaxPrice: "1150"})
		assert.Equal(t, []string{"2"}, ids(got))
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		got := Evaluate(collection, Params{District: AllDistricts, MinPrice: "980", MaxPrice: "1490"})
		assert.Equal(t, []string{"1", "2", "4"}, ids(got))
	})

	t.Run("malformed minimum is ignored", func(t *testing.T) {
		assert.Equal(t,
			Evaluate(collection, Params{District: AllDistricts}),
			Evaluate(collection, Params{District: AllDistricts, MinPrice: "abc"}))
	})

	t.Run("malformed maximum is ignored", func(t *testing.T) {
		assert.Equal(t,
			Evaluate(collection, Params{District: AllDistricts, MinPrice: "1000"}),
			Evaluate(collection, Params{District: AllDistricts, MinPrice: "1000", MaxPrice: "lots"}))
	})

	t.Run("inverted bounds match nothing", func(t *testing.T) {
		assert.Empty(t, Evaluate(collection, Params{District: AllDistricts, MinPrice: "1500", MaxPrice: "600"}))
	})
}

func TestEvaluateText(t *testing.T) {
	collection := scenarioListings()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty matches all", "", []string{"3", "1", "2", "4", "5"}},
		{"whitespace matches all", "   ", []string{"3", "1", "2", "4", "5"}},
		{"title case-insensitive", "STUDIO", []string{"3"}},
		{"district", "mladost", []string{"2"}},
		{"title or district", "2-br", []string{"2", "4"}},
		{"leading space is kept", " studio", []string{"3"}},
		{"trailing space is kept", "studio ", []string{}},
		{"no match", "penthouse", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Evaluate(collection, Params{District: AllDistricts, Text: tt.text})))
		})
	}
}

func TestEvaluateDistrict(t *testing.T) {
	collection := scenarioListings()

	assert.Len(t, Evaluate(collection, Params{District: AllDistricts}), 5)
	assert.Empty(t, Evaluate(collection, Params{District: ""}))
	assert.Equal(t, []string{"4"}, ids(Evaluate(collection, Params{District: "Center"})))
	assert.Empty(t, Evaluate(collection, Params{District: "center"}))
}

func TestEvaluateEveryDistrictOptionSelects(t *testing.T) {
	collection := []models.Listing{
		{ID: "1", District: "Center", Price: 900, Tags: []string{}},
		{ID: "2", District: "", Price: 800, Tags: []string{}},
		{ID: "3", District: "Center", Price: 700, Tags: []string{}},
	}

	want := map[string][]string{
		"Center": {"3", "1"},
		"":       {"2"},
	}
	for _, d := range Districts(collection) {
		t.Run(d, func(t *testing.T) {
			assert.Equal(t, want[d], ids(Evaluate(collection, Params{District: d})))
		})
	}
}

func TestEvaluateCombined(t *testing.T) {
	got := Evaluate(scenarioListings(), Params{
		District: AllDistricts,
		Beds:     "2",
		MaxPrice: "1200",
		Sort:     SortPriceDesc,
	})

	assert.Equal(t, []string{"2"}, ids(got))
}

func TestEvaluateIsStable(t *testing.T) {
	collection := []models.Listing{
		{ID: "a", Price: 900, Size: 50, Tags: []string{}},
		{ID: "b", Price: 700, Size: 60, Tags: []string{}},
		{ID: "c", Price: 900, Size: 40, Tags: []string{}},
		{ID: "d", Price: 700, Size: 60, Tags: []string{}},
		{ID: "e", Price: 900, Size: 60, Tags: []string{}},
	}

	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(Evaluate(collection, Params{District: AllDistricts, Sort: SortPriceAsc})))
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, ids(Evaluate(collection, Params{District: AllDistricts, Sort: SortPriceDesc})))
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, ids(Evaluate(collection, Params{District: AllDistricts, Sort: SortSizeDesc})))
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	collection := scenarioListings()
	before := ids(collection)

	got := Evaluate(collection, Params{District: AllDistricts, Sort: SortPriceDesc})
	got[0].Title = "changed"

	assert.Equal(t, before, ids(collection))
	assert.Equal(t, "Family 3-BR", collection[4].Title)
}

func TestEvaluateEmptyCollection(t *testing.T) {
	got := Evaluate(nil, Params{District: AllDistricts, Beds: "2"})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		key  string
		want Order
	}{
		{SortPriceAsc, Order{Field: "price", Dir: 1}},
		{SortPriceDesc, Order{Field: "price", Dir: -1}},
		{SortSizeAsc, Order{Field: "size", Dir: 1}},
		{SortSizeDesc, Order{Field: "size", Dir: -1}},
		{"", Order{Field: "price", Dir: 1}},
		{"beds-desc", Order{Field: "price", Dir: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrder(tt.key))
		})
	}
}

func TestDistricts(t *testing.T) {
	collection := []models.Listing{
		{District: "Center"},
		{District: "Lozenets"},
		{District: "Center"},
		{District: ""},
		{District: "Buxton"},
		{District: "Lozenets"},
	}

	assert.Equal(t, []string{"Center", "Lozenets", "", "Buxton"}, Districts(collection))
	assert.Empty(t, Districts(nil))
}
