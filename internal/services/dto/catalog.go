package dto

import (
	"time"
)

// ======================
// Response DTOs
// ======================

type GMSummary struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Rating     float64 `json:"rating"`
	IsVerified bool    `json:"is_verified"`
	Avatar     *string `json:"avatar,omitempty"`
	City       *string `json:"city,omitempty"`
}

type GameResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	GameSystem      string     `json:"game_system"`
	Platform        *string    `json:"platform,omitempty"`
	MaxPlayers      int        `json:"max_players"`
	CurrentPlayers  int        `json:"current_players"`
	PricePerSession *int       `json:"price_per_session,omitempty"`
	Duration        *int       `json:"duration,omitempty"`
	Difficulty      string     `json:"difficulty"`
	Tags            []string   `json:"tags"`
	ImageURL        *string    `json:"image_url,omitempty"`
	IsOnline        bool       `json:"is_online"`
	City            *string    `json:"city,omitempty"`
	Address         *string    `json:"address,omitempty"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	IsRecurring     bool       `json:"is_recurring"`
	Language        string     `json:"language"`
	IsActive        bool       `json:"is_active"`
	GM              *GMSummary `json:"gm,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Pagination - блок пагинации в ответе каталога.
// Pages считается как ceil(total/limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type GamePageResponse struct {
	Games      []GameResponse `json:"games"`
	Pagination Pagination     `json:"pagination"`
	// Source сообщает, каким путем собрана страница: "search" или "database"
	Source string `json:"source"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
