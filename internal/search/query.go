package search

import (
	"strconv"
	"time"

	"github.com/RanchesW/KazRPG/internal/models"
)

// buildSearchBody собирает тело запроса из фильтра каталога.
// Текстовый запрос идет в must и влияет на релевантность, все структурные
// фильтры идут в filter и на скоринг не влияют.
func buildSearchBody(filter models.GameFilter, now time.Time) map[string]interface{} {
	must := []map[string]interface{}{}
	filters := []map[string]interface{}{}

	if filter.Query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query": filter.Query,
				"fields": []string{
					"title^5",
					"title.russian^5",
					"description^3",
					"description.russian^3",
					"tags^2",
					"gm_username",
				},
				"fuzziness": "AUTO",
				"type":      "best_fields",
			},
		})
	}

	if filter.City != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"city": filter.City},
		})
	}
	if filter.GameSystem != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"game_system": filter.GameSystem},
		})
	}
	if filter.Difficulty != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"difficulty": filter.Difficulty},
		})
	}
	if filter.Language != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"language": filter.Language},
		})
	}
	if filter.IsOnline != nil {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"is_online": *filter.IsOnline},
		})
	}

	if filter.MinPrice != nil || filter.MaxPrice != nil {
		priceRange := map[string]interface{}{}
		if filter.MinPrice != nil {
			priceRange["gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			priceRange["lte"] = *filter.MaxPrice
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"price_per_session": priceRange},
		})
	}

	dateRange := map[string]interface{}{}
	if filter.DateFrom != nil {
		dateRange["gte"] = filter.DateFrom.Format(time.RFC3339)
	} else if !filter.IncludePast {
		// публичный каталог показывает только предстоящие сессии
		dateRange["gte"] = now.Format(time.RFC3339)
	}
	if filter.DateTo != nil {
		dateRange["lte"] = filter.DateTo.Format(time.RFC3339)
	}
	if len(dateRange) > 0 {
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"start_date": dateRange},
		})
	}

	if filter.Lat != nil && filter.Lon != nil && filter.RadiusKm != nil {
		filters = append(filters, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": formatDistance(*filter.RadiusKm),
				"location": map[string]interface{}{
					"lat": *filter.Lat,
					"lon": *filter.Lon,
				},
			},
		})
	}

	query := map[string]interface{}{
		"bool": map[string]interface{}{
			"filter": filters,
		},
	}
	if len(must) > 0 {
		query["bool"].(map[string]interface{})["must"] = must
	} else {
		query["bool"].(map[string]interface{})["must"] = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	return map[string]interface{}{
		"query": query,
		"sort":  buildSort(filter.Sort),
		"from":  (filter.Page - 1) * filter.Limit,
		"size":  filter.Limit,
	}
}

func buildSort(mode models.SortMode) []interface{} {
	switch mode {
	case models.SortDate:
		return []interface{}{
			map[string]interface{}{"start_date": map[string]interface{}{"order": "asc"}},
		}
	case models.SortPrice:
		return []interface{}{
			map[string]interface{}{"price_per_session": map[string]interface{}{
				"order":   "asc",
				"missing": "_last",
			}},
		}
	case models.SortRating:
		return []interface{}{
			map[string]interface{}{"gm_rating": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"gm_is_verified": map[string]interface{}{"order": "desc"}},
		}
	default:
		// релевантность: скоринг, затем ближайшие по дате при равном score
		return []interface{}{
			map[string]interface{}{"_score": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"start_date": map[string]interface{}{"order": "asc"}},
		}
	}
}

// Elasticsearch принимает "10km", дробные значения тоже валидны
func formatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64) + "km"
}
