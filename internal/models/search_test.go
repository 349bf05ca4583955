package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameFilterNormalize_Defaults(t *testing.T) {
	f := GameFilter{}
	f.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 12, f.Limit)
	assert.Equal(t, SortRelevance, f.Sort)
}

func TestGameFilterNormalize_ClampsLimit(t *testing.T) {
	f := GameFilter{Page: 2, Limit: 200}
	f.Normalize()

	assert.Equal(t, 2, f.Page)
	assert.Equal(t, MaxPageLimit, f.Limit)
}

func TestGameFilterNormalize_NegativePage(t *testing.T) {
	f := GameFilter{Page: -3, Limit: -1}
	f.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 12, f.Limit)
}

func TestGameFilterNormalize_UnknownSortFallsBack(t *testing.T) {
	f := GameFilter{Sort: "popularity"}
	f.Normalize()
	assert.Equal(t, SortRelevance, f.Sort)
}

func TestGameFilterNormalize_KeepsValidSort(t *testing.T) {
	for _, sort := range []SortMode{SortDate, SortPrice, SortRating} {
		f := GameFilter{Sort: sort}
		f.Normalize()
		assert.Equal(t, sort, f.Sort)
	}
}

func TestGameFilterImpossible(t *testing.T) {
	tests := []struct {
		name   string
		filter GameFilter
		want   bool
	}{
		{"пустой фильтр", GameFilter{}, false},
		{"известная система", GameFilter{GameSystem: GameSystemDND5E}, false},
		{"неизвестная система", GameFilter{GameSystem: "GURPS"}, true},
		{"неизвестная сложность", GameFilter{Difficulty: "NIGHTMARE"}, true},
		{"неизвестный язык", GameFilter{Language: "DE"}, true},
		{"все поля валидны", GameFilter{
			GameSystem: GameSystemPathfinder2E,
			Difficulty: DifficultyIntermediate,
			Language:   LanguageKK,
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Impossible())
		})
	}
}
