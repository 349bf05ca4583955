package services

import (
	"encoding/json"

	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/search"
	"github.com/RanchesW/KazRPG/internal/services/dto"
)

func gameToResponse(game *models.Game) *dto.GameResponse {
	resp := &dto.GameResponse{
		ID:              game.ID,
		Title:           game.Title,
		Description:     game.Description,
		GameSystem:      string(game.GameSystem),
		MaxPlayers:      game.MaxPlayers,
		CurrentPlayers:  game.CurrentPlayers,
		PricePerSession: game.PricePerSession,
		Duration:        game.Duration,
		Difficulty:      string(game.Difficulty),
		ImageURL:        game.ImageURL,
		IsOnline:        game.IsOnline,
		City:            game.City,
		Address:         game.Address,
		StartDate:       game.StartDate,
		EndDate:         game.EndDate,
		IsRecurring:     game.IsRecurring,
		Language:        string(game.Language),
		IsActive:        game.IsActive,
		CreatedAt:       game.CreatedAt,
	}

	if game.Platform != nil {
		platform := string(*game.Platform)
		resp.Platform = &platform
	}

	resp.Tags = []string{}
	if len(game.Tags) > 0 {
		_ = json.Unmarshal(game.Tags, &resp.Tags)
	}

	if game.GM != nil {
		resp.GM = &dto.GMSummary{
			ID:         game.GM.ID,
			Username:   game.GM.Username,
			Rating:     game.GM.Rating,
			IsVerified: game.GM.IsVerified,
			Avatar:     game.GM.Avatar,
			City:       game.GM.City,
		}
	}

	return resp
}

// documentToResponse восстанавливает ответ каталога из поискового документа.
// Документ денормализован, поэтому часть полей (адрес, платформа) в нем
// отсутствует - для страницы каталога их и не показывают.
func documentToResponse(doc *search.GameDocument) dto.GameResponse {
	resp := dto.GameResponse{
		ID:              doc.ID,
		Title:           doc.Title,
		Description:     doc.Description,
		GameSystem:      doc.GameSystem,
		PricePerSession: doc.PricePerSession,
		Difficulty:      doc.Difficulty,
		Tags:            doc.Tags,
		IsOnline:        doc.IsOnline,
		StartDate:       doc.StartDate,
		Language:        doc.Language,
		IsActive:        true,
		CreatedAt:       doc.CreatedAt,
		GM: &dto.GMSummary{
			ID:         doc.GMID,
			Username:   doc.GMUsername,
			Rating:     doc.GMRating,
			IsVerified: doc.GMIsVerified,
		},
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if doc.City != "" {
		city := doc.City
		resp.City = &city
	}
	return resp
}

func userToResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Avatar:      user.Avatar,
		Bio:         user.Bio,
		City:        user.City,
		Language:    string(user.Language),
		Role:        string(user.Role),
		IsGM:        user.IsGM,
		IsVerified:  user.IsVerified,
		Rating:      user.Rating,
		ReviewCount: user.ReviewCount,
		CreatedAt:   user.CreatedAt,
	}
}

func bookingToResponse(booking *models.Booking) dto.BookingResponse {
	resp := dto.BookingResponse{
		ID:          booking.ID,
		Status:      string(booking.Status),
		PlayerCount: booking.PlayerCount,
		Message:     booking.Message,
		TotalPrice:  booking.TotalPrice,
		UserID:      booking.UserID,
		GameID:      booking.GameID,
		CreatedAt:   booking.CreatedAt,
	}
	if booking.Game != nil {
		resp.Game = gameToResponse(booking.Game)
	}
	return resp
}

func reviewToResponse(review *models.Review) dto.ReviewResponse {
	resp := dto.ReviewResponse{
		ID:        review.ID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		AuthorID:  review.AuthorID,
		TargetID:  review.TargetID,
		GameID:    review.GameID,
		CreatedAt: review.CreatedAt,
	}
	if review.Author != nil {
		resp.Author = &dto.GMSummary{
			ID:         review.Author.ID,
			Username:   review.Author.Username,
			Rating:     review.Author.Rating,
			IsVerified: review.Author.IsVerified,
			Avatar:     review.Author.Avatar,
		}
	}
	return resp
}
