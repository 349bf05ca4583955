package search

import (
	"encoding/json"
	"time"

	"github.com/RanchesW/KazRPG/internal/models"
)

// GeoPoint - координаты оффлайн-игры для geo_distance фильтра
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GameDocument - денормализованная проекция игры для поискового индекса.
// Поля мастера (gm_*) дублируются из профиля, чтобы запрос не ходил в БД;
// документ живет в ногу с реляционной строкой через индексный воркер
// (eventual consistency).
type GameDocument struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	GameSystem      string     `json:"game_system"`
	Difficulty      string     `json:"difficulty"`
	Language        string     `json:"language"`
	City            string     `json:"city,omitempty"`
	IsOnline        bool       `json:"is_online"`
	Tags            []string   `json:"tags"`
	PricePerSession *int       `json:"price_per_session,omitempty"`
	StartDate       time.Time  `json:"start_date"`
	GMID            string     `json:"gm_id"`
	GMUsername      string     `json:"gm_username"`
	GMRating        float64    `json:"gm_rating"`
	GMIsVerified    bool       `json:"gm_is_verified"`
	Location        *GeoPoint  `json:"location,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DocumentFromGame собирает поисковый документ из игры и ее мастера
func DocumentFromGame(game *models.Game, gm *models.User) GameDocument {
	doc := GameDocument{
		ID:              game.ID,
		Title:           game.Title,
		Description:     game.Description,
		GameSystem:      string(game.GameSystem),
		Difficulty:      string(game.Difficulty),
		Language:        string(game.Language),
		IsOnline:        game.IsOnline,
		PricePerSession: game.PricePerSession,
		StartDate:       game.StartDate,
		GMID:            game.GMID,
		CreatedAt:       game.CreatedAt,
		UpdatedAt:       game.UpdatedAt,
	}

	if game.City != nil {
		doc.City = *game.City
	}

	if len(game.Tags) > 0 {
		_ = json.Unmarshal(game.Tags, &doc.Tags)
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	if gm != nil {
		doc.GMUsername = gm.Username
		doc.GMRating = gm.Rating
		doc.GMIsVerified = gm.IsVerified
	}

	return doc
}
