package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/models"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingAlreadyExists = errors.New("booking already exists for this game")
)

type BookingRepository interface {
	CreateBooking(db *gorm.DB, booking *models.Booking) error
	FindBookingByID(db *gorm.DB, id string) (*models.Booking, error)
	FindBookingsByUser(db *gorm.DB, userID string) ([]models.Booking, error)
	FindBookingsByGame(db *gorm.DB, gameID string) ([]models.Booking, error)
	FindActiveBookingByUserAndGame(db *gorm.DB, userID, gameID string) (*models.Booking, error)
	UpdateBookingStatus(db *gorm.DB, id string, status models.BookingStatus) error
	CountConfirmedPlayersByGM(db *gorm.DB, gmID string) (int64, error)
}

type BookingRepositoryImpl struct{}

func NewBookingRepository() BookingRepository {
	return &BookingRepositoryImpl{}
}

func (r *BookingRepositoryImpl) CreateBooking(db *gorm.DB, booking *models.Booking) error {
	return db.Create(booking).Error
}

func (r *BookingRepositoryImpl) FindBookingByID(db *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Game").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) FindBookingsByUser(db *gorm.DB, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Preload("Game").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepositoryImpl) FindBookingsByGame(db *gorm.DB, gameID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Preload("User").
		Where("game_id = ?", gameID).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

// FindActiveBookingByUserAndGame ищет незавершенную бронь - повторная
// бронь той же игры не разрешена, пока есть активная
func (r *BookingRepositoryImpl) FindActiveBookingByUserAndGame(db *gorm.DB, userID, gameID string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Where("user_id = ? AND game_id = ? AND status IN ?", userID, gameID,
		[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// CountConfirmedPlayersByGM считает игроков с подтвержденной бронью
// по всем играм мастера
func (r *BookingRepositoryImpl) CountConfirmedPlayersByGM(db *gorm.DB, gmID string) (int64, error) {
	var total int64
	err := db.Model(&models.Booking{}).
		Select("COALESCE(SUM(bookings.player_count), 0)").
		Joins("JOIN games ON games.id = bookings.game_id").
		Where("games.gm_id = ? AND bookings.status = ?", gmID, models.BookingStatusConfirmed).
		Scan(&total).Error
	return total, err
}

func (r *BookingRepositoryImpl) UpdateBookingStatus(db *gorm.DB, id string, status models.BookingStatus) error {
	result := db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
