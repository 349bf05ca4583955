package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/cache"
	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/repositories"
	"github.com/RanchesW/KazRPG/internal/search"
	"github.com/RanchesW/KazRPG/internal/services/dto"
	"github.com/RanchesW/KazRPG/pkg/apperrors"
)

const (
	sourceSearch   = "search"
	sourceDatabase = "database"
)

// SearchIndex - то, что каталогу нужно от поискового индекса.
// Реализуется search.Adapter; в тестах подменяется фейком.
type SearchIndex interface {
	Available() bool
	Search(ctx context.Context, filter models.GameFilter) search.Outcome
	Suggest(ctx context.Context, prefix string, limit int) []string
}

type CatalogService interface {
	// ListGames отдает страницу каталога: кэш, затем индекс,
	// затем реляционная база
	ListGames(ctx context.Context, db *gorm.DB, filter models.GameFilter) (*dto.GamePageResponse, error)
	GetGame(ctx context.Context, db *gorm.DB, id string) (*dto.GameResponse, error)
	Suggest(ctx context.Context, prefix string, limit int) *dto.SuggestionsResponse
	InvalidateCatalog(ctx context.Context)
	InvalidateGame(ctx context.Context, id string)
}

type CatalogTTL struct {
	Catalog time.Duration
	City    time.Duration
}

type catalogService struct {
	gameRepo repositories.GameRepository
	userRepo repositories.UserRepository
	store    cache.Store
	index    SearchIndex
	ttl      CatalogTTL
}

func NewCatalogService(
	gameRepo repositories.GameRepository,
	userRepo repositories.UserRepository,
	store cache.Store,
	index SearchIndex,
	ttl CatalogTTL,
) CatalogService {
	return &catalogService{
		gameRepo: gameRepo,
		userRepo: userRepo,
		store:    store,
		index:    index,
		ttl:      ttl,
	}
}

func (s *catalogService) ListGames(ctx context.Context, db *gorm.DB, filter models.GameFilter) (*dto.GamePageResponse, error) {
	filter.Normalize()

	// значение вне закрытого перечисления: пустая выдача, не ошибка
	if filter.Impossible() {
		return &dto.GamePageResponse{
			Games:      []dto.GameResponse{},
			Pagination: dto.NewPagination(filter.Page, filter.Limit, 0),
			Source:     sourceDatabase,
		}, nil
	}

	key := catalogKey(filter)

	if raw, err := s.store.Get(ctx, key); err == nil {
		var page dto.GamePageResponse
		if jsonErr := json.Unmarshal(raw, &page); jsonErr == nil {
			logger.CacheLog("get", key, true, nil)
			return &page, nil
		}
		// битая запись равносильна промаху
		logger.CacheLog("get", key, false, nil)
	} else if err != cache.ErrCacheMiss {
		logger.CacheLog("get", key, false, err)
	}

	page, err := s.computePage(ctx, db, filter)
	if err != nil {
		return nil, err
	}

	s.storePage(key, filter, page)
	return page, nil
}

// computePage собирает страницу: сначала индекс, при его недоступности -
// реляционный запрос с тем же фильтром. Админская выборка с неактивными
// играми идёт мимо индекса: в нём деактивированных документов нет.
func (s *catalogService) computePage(ctx context.Context, db *gorm.DB, filter models.GameFilter) (*dto.GamePageResponse, error) {
	if !filter.IncludeInactive && s.index != nil && s.index.Available() {
		outcome := s.index.Search(ctx, filter)
		if !outcome.Unavailable {
			return s.pageFromDocuments(filter, outcome.Result), nil
		}
		logger.Warn("search index unavailable, falling back to database", "reason", outcome.Reason)
	}

	games, total, err := s.gameRepo.SearchGames(db, filter)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	responses := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		responses = append(responses, *gameToResponse(&games[i]))
	}

	return &dto.GamePageResponse{
		Games:      responses,
		Pagination: dto.NewPagination(filter.Page, filter.Limit, total),
		Source:     sourceDatabase,
	}, nil
}

func (s *catalogService) pageFromDocuments(filter models.GameFilter, result *search.Result) *dto.GamePageResponse {
	responses := make([]dto.GameResponse, 0, len(result.Documents))
	for i := range result.Documents {
		responses = append(responses, documentToResponse(&result.Documents[i]))
	}
	return &dto.GamePageResponse{
		Games:      responses,
		Pagination: dto.NewPagination(filter.Page, filter.Limit, int64(result.Total)),
		Source:     sourceSearch,
	}
}

// storePage пишет страницу в кэш в отвязанном контексте: отмена клиентского
// запроса после вычисления страницы не должна мешать ее сохранению
func (s *catalogService) storePage(key string, filter models.GameFilter, page *dto.GamePageResponse) {
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}

	ttl := s.ttl.Catalog
	if filter.City != "" && filter.Query == "" {
		// городские подборки меняются реже поисковых выдач
		ttl = s.ttl.City
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.store.Set(ctx, key, raw, ttl); err != nil {
		logger.CacheLog("set", key, false, err)
	}
}

func (s *catalogService) GetGame(ctx context.Context, db *gorm.DB, id string) (*dto.GameResponse, error) {
	key := gameKey(id)

	if raw, err := s.store.Get(ctx, key); err == nil {
		var resp dto.GameResponse
		if json.Unmarshal(raw, &resp) == nil {
			logger.CacheLog("get", key, true, nil)
			return &resp, nil
		}
	}

	game, err := s.gameRepo.FindGameByID(db, id)
	if err != nil {
		if err == repositories.ErrGameNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}

	resp := gameToResponse(game)
	if raw, err := json.Marshal(resp); err == nil {
		setCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.store.Set(setCtx, key, raw, s.ttl.Catalog); err != nil {
			logger.CacheLog("set", key, false, err)
		}
	}
	return resp, nil
}

func (s *catalogService) Suggest(ctx context.Context, prefix string, limit int) *dto.SuggestionsResponse {
	if limit < 1 || limit > 20 {
		limit = 10
	}
	if s.index == nil {
		return &dto.SuggestionsResponse{Suggestions: []string{}}
	}
	return &dto.SuggestionsResponse{Suggestions: s.index.Suggest(ctx, prefix, limit)}
}

// InvalidateCatalog сбрасывает все закэшированные страницы каталога.
// Вызывается синхронно при любой мутации игры, чтобы следующее чтение
// уже не увидело устаревшую страницу.
func (s *catalogService) InvalidateCatalog(ctx context.Context) {
	if err := s.store.DeletePattern(ctx, "games:*"); err != nil {
		logger.CacheLog("delete_pattern", "games:*", false, err)
	}
}

func (s *catalogService) InvalidateGame(ctx context.Context, id string) {
	if err := s.store.Delete(ctx, gameKey(id)); err != nil {
		logger.CacheLog("delete", gameKey(id), false, err)
	}
}
