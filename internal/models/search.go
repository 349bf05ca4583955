package models

import "time"

// SortMode - режим сортировки каталога. Режимы взаимоисключающие:
// любой режим кроме relevance полностью замещает ранжирование по релевантности.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortDate      SortMode = "date"   // ближайшие сессии первыми
	SortPrice     SortMode = "price"  // дешевые первыми, без цены - последними
	SortRating    SortMode = "rating" // рейтинг мастера по убыванию
)

// MaxPageLimit - жесткий серверный потолок размера страницы каталога
const MaxPageLimit = 50

// GameFilter - неизменяемый набор необязательных ограничений выдачи.
// Один и тот же объект конвертируется и в реляционный предикат,
// и в запрос к поисковому индексу, без потерь.
type GameFilter struct {
	Query      string     `form:"search"`
	City       string     `form:"city"`
	GameSystem GameSystem `form:"gameSystem"`
	IsOnline   *bool      `form:"isOnline"`
	Language   Language   `form:"language"`
	Difficulty Difficulty `form:"difficulty"`
	MinPrice   *int       `form:"minPrice"`
	MaxPrice   *int       `form:"maxPrice"`
	DateFrom   *time.Time `form:"startDate" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"endDate" time_format:"2006-01-02"`
	Lat        *float64   `form:"lat"`
	Lon        *float64   `form:"lon"`
	RadiusKm   *float64   `form:"radius"`

	Sort  SortMode `form:"sort"`
	Page  int      `form:"page"`
	Limit int      `form:"limit"`

	// Административный режим: без ограничения "активные и будущие"
	IncludeInactive bool `form:"-"`
	IncludePast     bool `form:"-"`
}

// Normalize приводит страницу, лимит и сортировку к допустимым значениям.
// Лимит зажимается сервером независимо от запроса клиента.
func (f *GameFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 12
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	switch f.Sort {
	case SortDate, SortPrice, SortRating:
	default:
		f.Sort = SortRelevance
	}
}

// Impossible сообщает, что фильтр содержит значение вне закрытого
// перечисления. Такой запрос дает пустую выдачу, а не ошибку.
func (f *GameFilter) Impossible() bool {
	if f.GameSystem != "" && !IsValidGameSystem(f.GameSystem) {
		return true
	}
	if f.Difficulty != "" && !IsValidDifficulty(f.Difficulty) {
		return true
	}
	if f.Language != "" && !IsValidLanguage(f.Language) {
		return true
	}
	return false
}
