package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/repositories"
	"github.com/RanchesW/KazRPG/internal/services/dto"
	"github.com/RanchesW/KazRPG/pkg/apperrors"
)

type BookingService interface {
	CreateBooking(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	ConfirmBooking(ctx context.Context, db *gorm.DB, gmID, bookingID string) error
	CancelBooking(ctx context.Context, db *gorm.DB, userID, bookingID string) error
	GetUserBookings(ctx context.Context, db *gorm.DB, userID string) ([]dto.BookingResponse, error)
	GetGameBookings(ctx context.Context, db *gorm.DB, gmID, gameID string) ([]dto.BookingResponse, error)
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
	gameRepo    repositories.GameRepository
	catalog     CatalogService
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	gameRepo repositories.GameRepository,
	catalog CatalogService,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		gameRepo:    gameRepo,
		catalog:     catalog,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	game, err := s.gameRepo.FindGameByID(db, req.GameID)
	if err != nil {
		if err == repositories.ErrGameNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !game.IsActive {
		return nil, apperrors.ErrInvalidOperation("booking", "game is no longer active")
	}
	if game.GMID == userID {
		return nil, apperrors.ErrInvalidOperation("booking", "cannot book your own game")
	}
	if !game.HasSeats(req.PlayerCount) {
		return nil, apperrors.ErrConflict(apperrors.ErrGameFull, "booking", "not enough seats left")
	}

	if _, err := s.bookingRepo.FindActiveBookingByUserAndGame(db, userID, req.GameID); err == nil {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrBookingAlreadyExists)
	} else if err != repositories.ErrBookingNotFound {
		return nil, apperrors.DatabaseError(err)
	}

	booking := &models.Booking{
		Status:      models.BookingStatusPending,
		PlayerCount: req.PlayerCount,
		UserID:      userID,
		GameID:      req.GameID,
	}
	if req.Message != "" {
		booking.Message = &req.Message
	}
	if game.PricePerSession != nil {
		total := *game.PricePerSession * req.PlayerCount
		booking.TotalPrice = &total
	}

	if err := s.bookingRepo.CreateBooking(db, booking); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := bookingToResponse(booking)
	return &resp, nil
}

// ConfirmBooking: подтверждение занимает места в игре и делает
// закэшированные страницы с числом игроков устаревшими
func (s *bookingService) ConfirmBooking(ctx context.Context, db *gorm.DB, gmID, bookingID string) error {
	booking, game, err := s.loadBookingWithGame(db, bookingID)
	if err != nil {
		return err
	}

	if game.GMID != gmID {
		return apperrors.ErrNotGameMaster
	}
	if booking.Status != models.BookingStatusPending {
		return apperrors.ErrInvalidStatus("booking", "only pending bookings can be confirmed")
	}
	if !game.HasSeats(booking.PlayerCount) {
		return apperrors.ErrConflict(apperrors.ErrGameFull, "booking", "not enough seats left")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.UpdateBookingStatus(tx, bookingID, models.BookingStatusConfirmed); err != nil {
			return err
		}
		return s.gameRepo.AdjustCurrentPlayers(tx, game.ID, booking.PlayerCount)
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	s.catalog.InvalidateCatalog(ctx)
	s.catalog.InvalidateGame(ctx, game.ID)
	return nil
}

// CancelBooking доступен и игроку, и мастеру; отмена подтвержденной
// брони освобождает места
func (s *bookingService) CancelBooking(ctx context.Context, db *gorm.DB, userID, bookingID string) error {
	booking, game, err := s.loadBookingWithGame(db, bookingID)
	if err != nil {
		return err
	}

	if booking.UserID != userID && game.GMID != userID {
		return apperrors.NewForbiddenError("not a participant of this booking")
	}
	if booking.Status == models.BookingStatusCancelled || booking.Status == models.BookingStatusCompleted {
		return apperrors.ErrInvalidStatus("booking", "booking is already finalized")
	}

	wasConfirmed := booking.Status == models.BookingStatusConfirmed

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.bookingRepo.UpdateBookingStatus(tx, bookingID, models.BookingStatusCancelled); err != nil {
			return err
		}
		if wasConfirmed {
			return s.gameRepo.AdjustCurrentPlayers(tx, game.ID, -booking.PlayerCount)
		}
		return nil
	})
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	if wasConfirmed {
		s.catalog.InvalidateCatalog(ctx)
		s.catalog.InvalidateGame(ctx, game.ID)
	}
	return nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, db *gorm.DB, userID string) ([]dto.BookingResponse, error) {
	bookings, err := s.bookingRepo.FindBookingsByUser(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	responses := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookingToResponse(&bookings[i]))
	}
	return responses, nil
}

func (s *bookingService) GetGameBookings(ctx context.Context, db *gorm.DB, gmID, gameID string) ([]dto.BookingResponse, error) {
	game, err := s.gameRepo.FindGameByID(db, gameID)
	if err != nil {
		if err == repositories.ErrGameNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}
	if game.GMID != gmID {
		return nil, apperrors.ErrNotGameMaster
	}

	bookings, err := s.bookingRepo.FindBookingsByGame(db, gameID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	responses := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookingToResponse(&bookings[i]))
	}
	return responses, nil
}

func (s *bookingService) loadBookingWithGame(db *gorm.DB, bookingID string) (*models.Booking, *models.Game, error) {
	booking, err := s.bookingRepo.FindBookingByID(db, bookingID)
	if err != nil {
		if err == repositories.ErrBookingNotFound {
			return nil, nil, apperrors.ErrNotFound(err)
		}
		return nil, nil, apperrors.DatabaseError(err)
	}

	game := booking.Game
	if game == nil {
		loaded, err := s.gameRepo.FindGameByID(db, booking.GameID)
		if err != nil {
			return nil, nil, apperrors.DatabaseError(err)
		}
		game = loaded
	}
	return booking, game, nil
}
