package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/repositories"
	"github.com/RanchesW/KazRPG/internal/search"
	"github.com/RanchesW/KazRPG/internal/services/dto"
	"github.com/RanchesW/KazRPG/internal/workers"
	"github.com/RanchesW/KazRPG/pkg/apperrors"
)

// IndexQueue - то, что сервису игр нужно от индексного воркера
type IndexQueue interface {
	Enqueue(job workers.IndexJob)
}

type GameService interface {
	CreateGame(ctx context.Context, db *gorm.DB, gmID string, req *dto.CreateGameRequest) (*dto.GameResponse, error)
	UpdateGame(ctx context.Context, db *gorm.DB, userID, gameID string, req *dto.UpdateGameRequest) (*dto.GameResponse, error)
	DeleteGame(ctx context.Context, db *gorm.DB, userID string, isAdmin bool, gameID string) error
	GetGamesByGM(ctx context.Context, db *gorm.DB, gmID string) ([]dto.GameResponse, error)

	// ReindexAll полностью пересобирает поисковый индекс из базы
	ReindexAll(ctx context.Context, db *gorm.DB) (int, error)
}

// BulkIndexer - то, что нужно полной переиндексации от адаптера
type BulkIndexer interface {
	Available() bool
	BulkIndex(ctx context.Context, docs []search.GameDocument) error
}

type gameService struct {
	gameRepo repositories.GameRepository
	userRepo repositories.UserRepository
	catalog  CatalogService
	queue    IndexQueue
	bulk     BulkIndexer
}

func NewGameService(
	gameRepo repositories.GameRepository,
	userRepo repositories.UserRepository,
	catalog CatalogService,
	queue IndexQueue,
	bulk BulkIndexer,
) GameService {
	return &gameService{
		gameRepo: gameRepo,
		userRepo: userRepo,
		catalog:  catalog,
		queue:    queue,
		bulk:     bulk,
	}
}

func (s *gameService) CreateGame(ctx context.Context, db *gorm.DB, gmID string, req *dto.CreateGameRequest) (*dto.GameResponse, error) {
	gm, err := s.userRepo.FindUserByID(db, gmID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if !gm.IsGM && gm.Role != models.UserRoleAdmin {
		return nil, apperrors.NewForbiddenError("only game masters can create games")
	}

	if err := validateLocation(req.IsOnline, req.City, req.Address); err != nil {
		return nil, err
	}

	game := &models.Game{
		Title:           req.Title,
		Description:     req.Description,
		GameSystem:      models.GameSystem(req.GameSystem),
		MaxPlayers:      req.MaxPlayers,
		PricePerSession: req.PricePerSession,
		Duration:        req.Duration,
		Difficulty:      models.Difficulty(req.Difficulty),
		ImageURL:        req.ImageURL,
		IsOnline:        req.IsOnline,
		City:            req.City,
		Address:         req.Address,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsRecurring:     req.IsRecurring,
		Language:        models.Language(req.Language),
		IsActive:        true,
		GMID:            gmID,
	}
	if req.Platform != nil {
		platform := models.Platform(*req.Platform)
		game.Platform = &platform
	}
	if tags, err := json.Marshal(req.Tags); err == nil {
		game.Tags = datatypes.JSON(tags)
	}

	if err := s.gameRepo.CreateGame(db, game); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	s.afterMutation(ctx, game, gm)
	game.GM = gm
	return gameToResponse(game), nil
}

func (s *gameService) UpdateGame(ctx context.Context, db *gorm.DB, userID, gameID string, req *dto.UpdateGameRequest) (*dto.GameResponse, error) {
	game, err := s.gameRepo.FindGameByID(db, gameID)
	if err != nil {
		if err == repositories.ErrGameNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}

	user, err := s.userRepo.FindUserByID(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if game.GMID != userID && user.Role != models.UserRoleAdmin {
		return nil, apperrors.NewForbiddenError("only the owner can update this game")
	}

	applyGameUpdate(game, req)

	if err := validateLocation(game.IsOnline, game.City, game.Address); err != nil {
		return nil, err
	}
	if game.CurrentPlayers > game.MaxPlayers {
		return nil, apperrors.NewBadRequestError("max_players cannot be below current player count")
	}

	if err := s.gameRepo.UpdateGame(db, game); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	s.afterMutation(ctx, game, game.GM)
	return gameToResponse(game), nil
}

// DeleteGame физически удаляет игру без бронирований; игра с активными
// бронированиями только деактивируется, чтобы не потерять историю
func (s *gameService) DeleteGame(ctx context.Context, db *gorm.DB, userID string, isAdmin bool, gameID string) error {
	game, err := s.gameRepo.FindGameByID(db, gameID)
	if err != nil {
		if err == repositories.ErrGameNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.DatabaseError(err)
	}

	if game.GMID != userID && !isAdmin {
		return apperrors.NewForbiddenError("only the owner can delete this game")
	}

	hasBookings, err := s.gameRepo.HasBookings(db, gameID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	if hasBookings {
		if err := s.gameRepo.DeactivateGame(db, gameID); err != nil {
			return apperrors.DatabaseError(err)
		}
	} else {
		if err := s.gameRepo.DeleteGame(db, gameID); err != nil {
			return apperrors.DatabaseError(err)
		}
	}

	s.catalog.InvalidateCatalog(ctx)
	s.catalog.InvalidateGame(ctx, gameID)
	if s.queue != nil {
		s.queue.Enqueue(workers.DeleteGame(gameID))
	}
	return nil
}

func (s *gameService) GetGamesByGM(ctx context.Context, db *gorm.DB, gmID string) ([]dto.GameResponse, error) {
	games, err := s.gameRepo.FindGamesByGM(db, gmID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	responses := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		responses = append(responses, *gameToResponse(&games[i]))
	}
	return responses, nil
}

func (s *gameService) ReindexAll(ctx context.Context, db *gorm.DB) (int, error) {
	if s.bulk == nil || !s.bulk.Available() {
		return 0, apperrors.ErrSearchUnavailable
	}

	games, err := s.gameRepo.FindAllActiveGames(db)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}

	docs := make([]search.GameDocument, 0, len(games))
	for i := range games {
		docs = append(docs, search.DocumentFromGame(&games[i], games[i].GM))
	}

	if err := s.bulk.BulkIndex(ctx, docs); err != nil {
		logger.WithError(err).Error("full reindex failed")
		return 0, apperrors.InternalError(err)
	}

	s.catalog.InvalidateCatalog(ctx)
	return len(docs), nil
}

// afterMutation: синхронная инвалидация кэша, асинхронная индексация.
// Индекс хранит только активные игры, поэтому деактивация — это удаление документа.
func (s *gameService) afterMutation(ctx context.Context, game *models.Game, gm *models.User) {
	s.catalog.InvalidateCatalog(ctx)
	s.catalog.InvalidateGame(ctx, game.ID)
	if s.queue == nil {
		return
	}
	if !game.IsActive {
		s.queue.Enqueue(workers.DeleteGame(game.ID))
		return
	}
	s.queue.Enqueue(workers.IndexGame(search.DocumentFromGame(game, gm)))
}

func validateLocation(isOnline bool, city, address *string) error {
	if isOnline {
		return nil
	}
	if city == nil || *city == "" || address == nil || *address == "" {
		return apperrors.NewBadRequestError("offline games require city and address")
	}
	return nil
}

func applyGameUpdate(game *models.Game, req *dto.UpdateGameRequest) {
	if req.Title != nil {
		game.Title = *req.Title
	}
	if req.Description != nil {
		game.Description = *req.Description
	}
	if req.Platform != nil {
		platform := models.Platform(*req.Platform)
		game.Platform = &platform
	}
	if req.MaxPlayers != nil {
		game.MaxPlayers = *req.MaxPlayers
	}
	if req.PricePerSession != nil {
		game.PricePerSession = req.PricePerSession
	}
	if req.Duration != nil {
		game.Duration = req.Duration
	}
	if req.Difficulty != nil {
		game.Difficulty = models.Difficulty(*req.Difficulty)
	}
	if req.Tags != nil {
		if tags, err := json.Marshal(req.Tags); err == nil {
			game.Tags = datatypes.JSON(tags)
		}
	}
	if req.ImageURL != nil {
		game.ImageURL = req.ImageURL
	}
	if req.IsOnline != nil {
		game.IsOnline = *req.IsOnline
	}
	if req.City != nil {
		game.City = req.City
	}
	if req.Address != nil {
		game.Address = req.Address
	}
	if req.StartDate != nil {
		game.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		game.EndDate = req.EndDate
	}
	if req.IsActive != nil {
		game.IsActive = *req.IsActive
	}
}
