package dto

import "time"

type CreateBookingRequest struct {
	GameID      string `json:"game_id" validate:"required,uuid"`
	PlayerCount int    `json:"player_count" validate:"required,min=1,max=10"`
	Message     string `json:"message" validate:"omitempty,max=1000"`
}

type BookingResponse struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	PlayerCount int           `json:"player_count"`
	Message     *string       `json:"message,omitempty"`
	TotalPrice  *int          `json:"total_price,omitempty"`
	UserID      string        `json:"user_id"`
	GameID      string        `json:"game_id"`
	Game        *GameResponse `json:"game,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
