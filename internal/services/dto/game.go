package dto

import "time"

// ======================
// Request DTOs
// ======================

type CreateGameRequest struct {
	Title           string     `json:"title" validate:"required,min=5,max=200"`
	Description     string     `json:"description" validate:"required,min=20,max=5000"`
	GameSystem      string     `json:"game_system" validate:"required,is-game-system"`
	Platform        *string    `json:"platform,omitempty"`
	MaxPlayers      int        `json:"max_players" validate:"required,min=1,max=20"`
	PricePerSession *int       `json:"price_per_session,omitempty" validate:"omitempty,min=0"`
	Duration        *int       `json:"duration,omitempty" validate:"omitempty,min=30,max=720"`
	Difficulty      string     `json:"difficulty" validate:"required,is-difficulty"`
	Tags            []string   `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=2,max=30"`
	ImageURL        *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	IsOnline        bool       `json:"is_online"`
	City            *string    `json:"city,omitempty"`
	Address         *string    `json:"address,omitempty"`
	StartDate       time.Time  `json:"start_date" validate:"required"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	IsRecurring     bool       `json:"is_recurring"`
	Language        string     `json:"language" validate:"required,is-language"`
}

type UpdateGameRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=5,max=200"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,min=20,max=5000"`
	Platform        *string    `json:"platform,omitempty"`
	MaxPlayers      *int       `json:"max_players,omitempty" validate:"omitempty,min=1,max=20"`
	PricePerSession *int       `json:"price_per_session,omitempty" validate:"omitempty,min=0"`
	Duration        *int       `json:"duration,omitempty" validate:"omitempty,min=30,max=720"`
	Difficulty      *string    `json:"difficulty,omitempty" validate:"omitempty,is-difficulty"`
	Tags            []string   `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=2,max=30"`
	ImageURL        *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	IsOnline        *bool      `json:"is_online,omitempty"`
	City            *string    `json:"city,omitempty"`
	Address         *string    `json:"address,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
}
