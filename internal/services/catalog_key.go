package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RanchesW/KazRPG/internal/models"
)

// catalogKey строит детерминированный ключ кэша по всем полям фильтра.
// Любые два различающихся фильтра дают различные ключи: каждое поле
// занимает фиксированную позицию, свободный текст экранируется, nil
// кодируется отдельным маркером, неотличимым от любого значения.
func catalogKey(filter models.GameFilter) string {
	parts := []string{
		"games", "catalog", "v1",
		url.QueryEscape(filter.Query),
		url.QueryEscape(filter.City),
		string(filter.GameSystem),
		keyBool(filter.IsOnline),
		string(filter.Language),
		string(filter.Difficulty),
		keyInt(filter.MinPrice),
		keyInt(filter.MaxPrice),
		keyTime(filter.DateFrom),
		keyTime(filter.DateTo),
		keyFloat(filter.Lat),
		keyFloat(filter.Lon),
		keyFloat(filter.RadiusKm),
		string(filter.Sort),
		strconv.Itoa(filter.Page),
		strconv.Itoa(filter.Limit),
		fmt.Sprintf("%t", filter.IncludeInactive),
		fmt.Sprintf("%t", filter.IncludePast),
	}
	return strings.Join(parts, ":")
}

func gmStatsKey(gmID string) string {
	return "gm:stats:" + gmID
}

func gameKey(id string) string {
	return "games:item:" + id
}

func keyBool(v *bool) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatBool(*v)
}

func keyInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func keyFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func keyTime(v *time.Time) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(v.Unix(), 10)
}
