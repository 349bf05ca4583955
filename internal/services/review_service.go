package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/cache"
	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/repositories"
	"github.com/RanchesW/KazRPG/internal/search"
	"github.com/RanchesW/KazRPG/internal/services/dto"
	"github.com/RanchesW/KazRPG/internal/workers"
	"github.com/RanchesW/KazRPG/pkg/apperrors"
)

type ReviewService interface {
	CreateReview(ctx context.Context, db *gorm.DB, authorID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	GetGMReviews(ctx context.Context, db *gorm.DB, gmID string, page, limit int) (*dto.ReviewListResponse, error)
	DeleteReview(ctx context.Context, db *gorm.DB, userID string, isAdmin bool, reviewID string) error

	// GetGMStats отдает агрегированную статистику мастера из кэша
	GetGMStats(ctx context.Context, db *gorm.DB, gmID string) (*dto.GMStatsResponse, error)
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	userRepo    repositories.UserRepository
	gameRepo    repositories.GameRepository
	bookingRepo repositories.BookingRepository
	store       cache.Store
	queue       IndexQueue
	statsTTL    time.Duration
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	gameRepo repositories.GameRepository,
	bookingRepo repositories.BookingRepository,
	store cache.Store,
	queue IndexQueue,
	statsTTL time.Duration,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		gameRepo:    gameRepo,
		bookingRepo: bookingRepo,
		store:       store,
		queue:       queue,
		statsTTL:    statsTTL,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, db *gorm.DB, authorID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	game, err := s.gameRepo.FindGameByID(db, req.GameID)
	if err != nil {
		if err == repositories.ErrGameNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}

	if game.GMID == authorID {
		return nil, apperrors.ErrInvalidOperation("review", "cannot review your own game")
	}

	// отзыв оставляет только участник с завершенной или подтвержденной бронью
	booking, err := s.bookingRepo.FindActiveBookingByUserAndGame(db, authorID, req.GameID)
	if err != nil {
		if err == repositories.ErrBookingNotFound {
			return nil, apperrors.NewForbiddenError("only players with a booking can leave a review")
		}
		return nil, apperrors.DatabaseError(err)
	}
	if booking.Status != models.BookingStatusConfirmed && booking.Status != models.BookingStatusCompleted {
		return nil, apperrors.NewForbiddenError("only players with a confirmed booking can leave a review")
	}

	if _, err := s.reviewRepo.FindReviewByGameAndAuthor(db, req.GameID, authorID); err == nil {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrReviewAlreadyExists)
	} else if err != repositories.ErrReviewNotFound {
		return nil, apperrors.DatabaseError(err)
	}

	review := &models.Review{
		Rating:   req.Rating,
		AuthorID: authorID,
		TargetID: game.GMID,
		GameID:   req.GameID,
	}
	if req.Comment != "" {
		review.Comment = &req.Comment
	}

	if err := s.reviewRepo.CreateReview(db, review); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if err := s.recomputeRating(ctx, db, game.GMID); err != nil {
		logger.WithError(err).Error("rating recompute failed", "gm_id", game.GMID)
	}

	resp := reviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) GetGMReviews(ctx context.Context, db *gorm.DB, gmID string, page, limit int) (*dto.ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > models.MaxPageLimit {
		limit = 12
	}

	reviews, total, err := s.reviewRepo.FindReviewsByTarget(db, gmID, page, limit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, reviewToResponse(&reviews[i]))
	}

	return &dto.ReviewListResponse{
		Reviews:    responses,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, db *gorm.DB, userID string, isAdmin bool, reviewID string) error {
	review, err := s.reviewRepo.FindReviewByID(db, reviewID)
	if err != nil {
		if err == repositories.ErrReviewNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.DatabaseError(err)
	}

	if review.AuthorID != userID && !isAdmin {
		return apperrors.NewForbiddenError("only the author can delete this review")
	}

	if err := s.reviewRepo.DeleteReview(db, reviewID); err != nil {
		return apperrors.DatabaseError(err)
	}

	if err := s.recomputeRating(ctx, db, review.TargetID); err != nil {
		logger.WithError(err).Error("rating recompute failed", "gm_id", review.TargetID)
	}
	return nil
}

func (s *reviewService) GetGMStats(ctx context.Context, db *gorm.DB, gmID string) (*dto.GMStatsResponse, error) {
	key := gmStatsKey(gmID)

	if raw, err := s.store.Get(ctx, key); err == nil {
		var stats dto.GMStatsResponse
		if json.Unmarshal(raw, &stats) == nil {
			logger.CacheLog("get", key, true, nil)
			return &stats, nil
		}
	}

	gm, err := s.userRepo.FindUserByID(db, gmID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}

	activeGames, err := s.gameRepo.CountActiveGamesByGM(db, gmID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	completedGames, err := s.gameRepo.CountPastGamesByGM(db, gmID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	confirmedPlayers, err := s.bookingRepo.CountConfirmedPlayersByGM(db, gmID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	stats := &dto.GMStatsResponse{
		GMID:             gm.ID,
		Username:         gm.Username,
		Rating:           gm.Rating,
		ReviewCount:      gm.ReviewCount,
		ActiveGames:      activeGames,
		CompletedGames:   completedGames,
		ConfirmedPlayers: confirmedPlayers,
		IsVerified:       gm.IsVerified,
	}

	if raw, err := json.Marshal(stats); err == nil {
		setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.store.Set(setCtx, key, raw, s.statsTTL); err != nil {
			logger.CacheLog("set", key, false, err)
		}
	}
	return stats, nil
}

// recomputeRating пересчитывает агрегаты мастера, сбрасывает его
// статистику в кэше и ставит все его игры в очередь на переиндексацию -
// рейтинг мастера денормализован в каждом документе
func (s *reviewService) recomputeRating(ctx context.Context, db *gorm.DB, gmID string) error {
	avg, count, err := s.reviewRepo.CalculateTargetRating(db, gmID)
	if err != nil {
		return err
	}

	rounded := math.Round(avg*10) / 10
	if err := s.userRepo.UpdateUserRating(db, gmID, rounded, int(count)); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, gmStatsKey(gmID)); err != nil {
		logger.CacheLog("delete", gmStatsKey(gmID), false, err)
	}

	if s.queue == nil {
		return nil
	}

	gm, err := s.userRepo.FindUserByID(db, gmID)
	if err != nil {
		return err
	}
	games, err := s.gameRepo.FindGamesByGM(db, gmID)
	if err != nil {
		return err
	}
	for i := range games {
		if games[i].IsActive {
			s.queue.Enqueue(workers.IndexGame(search.DocumentFromGame(&games[i], gm)))
		}
	}
	return nil
}
