package search

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RanchesW/KazRPG/internal/models"
)

func normalizedFilter(mutate func(*models.GameFilter)) models.GameFilter {
	f := models.GameFilter{}
	if mutate != nil {
		mutate(&f)
	}
	f.Normalize()
	return f
}

// roundTrip прогоняет тело через json, чтобы сравнивать его так,
// как его увидит индекс
func roundTrip(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func boolClause(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	query, ok := body["query"].(map[string]interface{})
	require.True(t, ok)
	boolQ, ok := query["bool"].(map[string]interface{})
	require.True(t, ok)
	return boolQ
}

func TestBuildSearchBody_FreeTextGoesToMust(t *testing.T) {
	f := normalizedFilter(func(f *models.GameFilter) { f.Query = "драконы" })
	body := roundTrip(t, buildSearchBody(f, time.Now()))

	boolQ := boolClause(t, body)
	must, ok := boolQ["must"].([]interface{})
	require.True(t, ok)
	require.Len(t, must, 1)

	mm := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "драконы", mm["query"])
	assert.Equal(t, "AUTO", mm["fuzziness"])

	fields := mm["fields"].([]interface{})
	assert.Contains(t, fields, "title^5")
	assert.Contains(t, fields, "title.russian^5")
	assert.Contains(t, fields, "description^3")
	assert.Contains(t, fields, "tags^2")
	assert.Contains(t, fields, "gm_username")
}

func TestBuildSearchBody_EmptyQueryUsesMatchAll(t *testing.T) {
	f := normalizedFilter(nil)
	body := roundTrip(t, buildSearchBody(f, time.Now()))

	boolQ := boolClause(t, body)
	must := boolQ["must"].(map[string]interface{})
	assert.Contains(t, must, "match_all")
}

func TestBuildSearchBody_StructuredFiltersAreNonScoring(t *testing.T) {
	online := true
	minPrice, maxPrice := 1000, 5000
	f := normalizedFilter(func(f *models.GameFilter) {
		f.City = "Алматы"
		f.GameSystem = "DND5E"
		f.IsOnline = &online
		f.MinPrice = &minPrice
		f.MaxPrice = &maxPrice
	})
	body := roundTrip(t, buildSearchBody(f, time.Now()))

	filters := boolClause(t, body)["filter"].([]interface{})

	var sawCity, sawSystem, sawOnline, sawPrice bool
	for _, raw := range filters {
		clause := raw.(map[string]interface{})
		if term, ok := clause["term"].(map[string]interface{}); ok {
			if term["city"] == "Алматы" {
				sawCity = true
			}
			if term["game_system"] == "DND5E" {
				sawSystem = true
			}
			if term["is_online"] == true {
				sawOnline = true
			}
		}
		if rng, ok := clause["range"].(map[string]interface{}); ok {
			if price, ok := rng["price_per_session"].(map[string]interface{}); ok {
				assert.EqualValues(t, 1000, price["gte"])
				assert.EqualValues(t, 5000, price["lte"])
				sawPrice = true
			}
		}
	}

	assert.True(t, sawCity)
	assert.True(t, sawSystem)
	assert.True(t, sawOnline)
	assert.True(t, sawPrice)
}

func TestBuildSearchBody_PublicCatalogRestrictsToUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := normalizedFilter(nil)
	body := roundTrip(t, buildSearchBody(f, now))

	filters := boolClause(t, body)["filter"].([]interface{})

	var sawStartDate bool
	for _, raw := range filters {
		clause := raw.(map[string]interface{})
		if rng, ok := clause["range"].(map[string]interface{}); ok {
			if sd, ok := rng["start_date"].(map[string]interface{}); ok {
				assert.Equal(t, now.Format(time.RFC3339), sd["gte"])
				sawStartDate = true
			}
		}
	}
	assert.True(t, sawStartDate, "публичный каталог показывает только предстоящие сессии")
}

func TestBuildSearchBody_IncludePastDropsRestriction(t *testing.T) {
	f := normalizedFilter(func(f *models.GameFilter) { f.IncludePast = true })
	body := roundTrip(t, buildSearchBody(f, time.Now()))

	filters, _ := boolClause(t, body)["filter"].([]interface{})
	for _, raw := range filters {
		clause := raw.(map[string]interface{})
		if rng, ok := clause["range"].(map[string]interface{}); ok {
			_, has := rng["start_date"]
			assert.False(t, has, "админский режим не ограничивает по дате")
		}
	}
}

func TestBuildSearchBody_GeoFilter(t *testing.T) {
	lat, lon, radius := 43.238949, 76.889709, 10.0
	f := normalizedFilter(func(f *models.GameFilter) {
		f.Lat = &lat
		f.Lon = &lon
		f.RadiusKm = &radius
	})
	body := roundTrip(t, buildSearchBody(f, time.Now()))

	filters := boolClause(t, body)["filter"].([]interface{})

	var sawGeo bool
	for _, raw := range filters {
		clause := raw.(map[string]interface{})
		if geo, ok := clause["geo_distance"].(map[string]interface{}); ok {
			assert.Equal(t, "10km", geo["distance"])
			loc := geo["location"].(map[string]interface{})
			assert.InDelta(t, 43.238949, loc["lat"].(float64), 1e-9)
			sawGeo = true
		}
	}
	assert.True(t, sawGeo)
}

func TestBuildSearchBody_Pagination(t *testing.T) {
	f := normalizedFilter(func(f *models.GameFilter) {
		f.Page = 3
		f.Limit = 20
	})
	body := roundTrip(t, buildSearchBody(f, time.Now()))

	assert.EqualValues(t, 40, body["from"])
	assert.EqualValues(t, 20, body["size"])
}

func TestBuildSort(t *testing.T) {
	t.Run("date", func(t *testing.T) {
		sort := buildSort(models.SortDate)
		require.Len(t, sort, 1)
		clause := sort[0].(map[string]interface{})["start_date"].(map[string]interface{})
		assert.Equal(t, "asc", clause["order"])
	})

	t.Run("price puts games without price last", func(t *testing.T) {
		sort := buildSort(models.SortPrice)
		require.Len(t, sort, 1)
		clause := sort[0].(map[string]interface{})["price_per_session"].(map[string]interface{})
		assert.Equal(t, "asc", clause["order"])
		assert.Equal(t, "_last", clause["missing"])
	})

	t.Run("rating uses gm fields", func(t *testing.T) {
		sort := buildSort(models.SortRating)
		require.Len(t, sort, 2)
		rating := sort[0].(map[string]interface{})["gm_rating"].(map[string]interface{})
		assert.Equal(t, "desc", rating["order"])
		verified := sort[1].(map[string]interface{})["gm_is_verified"].(map[string]interface{})
		assert.Equal(t, "desc", verified["order"])
	})

	t.Run("relevance breaks ties by start date", func(t *testing.T) {
		sort := buildSort(models.SortRelevance)
		require.Len(t, sort, 2)
		assert.Contains(t, sort[0].(map[string]interface{}), "_score")
		assert.Contains(t, sort[1].(map[string]interface{}), "start_date")
	})
}
