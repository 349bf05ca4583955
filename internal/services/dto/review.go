package dto

import "time"

type CreateReviewRequest struct {
	GameID  string `json:"game_id" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	AuthorID  string    `json:"author_id"`
	TargetID  string    `json:"target_id"`
	GameID    string    `json:"game_id"`
	Author    *GMSummary `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	Pagination Pagination       `json:"pagination"`
}

// GMStatsResponse - агрегированная статистика мастера, кэшируется
type GMStatsResponse struct {
	GMID             string  `json:"gm_id"`
	Username         string  `json:"username"`
	Rating           float64 `json:"rating"`
	ReviewCount      int     `json:"review_count"`
	ActiveGames      int64   `json:"active_games"`
	CompletedGames   int64   `json:"completed_games"`
	ConfirmedPlayers int64   `json:"confirmed_players"`
	IsVerified       bool    `json:"is_verified"`
}
