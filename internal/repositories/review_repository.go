package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/models"
)

var (
	ErrReviewNotFound       = errors.New("review not found")
	ErrReviewAlreadyExists  = errors.New("review already exists for this game")
	ErrSelfReviewNotAllowed = errors.New("cannot review yourself")
)

type ReviewRepository interface {
	CreateReview(db *gorm.DB, review *models.Review) error
	FindReviewByID(db *gorm.DB, id string) (*models.Review, error)
	FindReviewsByTarget(db *gorm.DB, targetID string, page, limit int) ([]models.Review, int64, error)
	FindReviewByGameAndAuthor(db *gorm.DB, gameID, authorID string) (*models.Review, error)
	DeleteReview(db *gorm.DB, id string) error

	// Агрегаты для пересчета рейтинга мастера
	CalculateTargetRating(db *gorm.DB, targetID string) (float64, int64, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) CreateReview(db *gorm.DB, review *models.Review) error {
	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindReviewByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.Where("id = ?", id).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindReviewsByTarget(db *gorm.DB, targetID string, page, limit int) ([]models.Review, int64, error) {
	var (
		reviews []models.Review
		total   int64
	)

	query := db.Model(&models.Review{}).Where("target_id = ?", targetID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) FindReviewByGameAndAuthor(db *gorm.DB, gameID, authorID string) (*models.Review, error) {
	var review models.Review
	err := db.Where("game_id = ? AND author_id = ?", gameID, authorID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) DeleteReview(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// CalculateTargetRating считает средний рейтинг и количество отзывов
func (r *ReviewRepositoryImpl) CalculateTargetRating(db *gorm.DB, targetID string) (float64, int64, error) {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("target_id = ?", targetID).
		Scan(&stats).Error
	if err != nil {
		return 0, 0, err
	}
	return stats.Avg, stats.Count, nil
}
