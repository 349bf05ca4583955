package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/cache"
	"github.com/RanchesW/KazRPG/internal/logger"
	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/repositories"
	"github.com/RanchesW/KazRPG/internal/search"
)

func init() {
	logger.Init("test")
}

// fakeGameRepo перехватывает только нужные методы, остальное паникует
type fakeGameRepo struct {
	repositories.GameRepository
	searchCalls int
	games       []models.Game
	total       int64
	err         error
}

func (f *fakeGameRepo) SearchGames(db *gorm.DB, filter models.GameFilter) ([]models.Game, int64, error) {
	f.searchCalls++
	return f.games, f.total, f.err
}

type fakeIndex struct {
	available   bool
	outcome     search.Outcome
	searchCalls int
	suggestions []string
}

func (f *fakeIndex) Available() bool { return f.available }

func (f *fakeIndex) Search(ctx context.Context, filter models.GameFilter) search.Outcome {
	f.searchCalls++
	return f.outcome
}

func (f *fakeIndex) Suggest(ctx context.Context, prefix string, limit int) []string {
	return f.suggestions
}

func searchOk(docs []search.GameDocument, total int) search.Outcome {
	return search.Outcome{Result: &search.Result{Documents: docs, Total: total}}
}

func searchDown(reason string) search.Outcome {
	return search.Outcome{Unavailable: true, Reason: reason}
}

func newCatalogFixture(repo *fakeGameRepo, index *fakeIndex) (CatalogService, *cache.Memory) {
	store := cache.NewMemory(0)
	svc := NewCatalogService(repo, repositories.NewUserRepository(), store, index, CatalogTTL{
		Catalog: 5 * time.Minute,
		City:    10 * time.Minute,
	})
	return svc, store
}

func testGame(id, title string) models.Game {
	g := models.Game{
		Title:      title,
		GameSystem: models.GameSystemDND5E,
		Difficulty: models.DifficultyBeginnerFriendly,
		Language:   models.LanguageRU,
		MaxPlayers: 5,
		StartDate:  time.Now().Add(24 * time.Hour),
		IsActive:   true,
		GMID:       "gm-1",
	}
	g.ID = id
	return g
}

func TestListGames_SearchPathWins(t *testing.T) {
	repo := &fakeGameRepo{}
	index := &fakeIndex{
		available: true,
		outcome: searchOk([]search.GameDocument{
			{ID: "g1", Title: "Проклятье Страда"},
		}, 1),
	}
	svc, _ := newCatalogFixture(repo, index)

	page, err := svc.ListGames(context.Background(), nil, models.GameFilter{Query: "страд"})
	require.NoError(t, err)

	assert.Equal(t, "search", page.Source)
	require.Len(t, page.Games, 1)
	assert.Equal(t, "g1", page.Games[0].ID)
	assert.Equal(t, 0, repo.searchCalls, "при живом индексе реляционный путь не трогается")
}

func TestListGames_FallsBackToDatabaseWhenIndexDown(t *testing.T) {
	repo := &fakeGameRepo{games: []models.Game{testGame("g2", "Шахты Фанделвера")}, total: 1}
	index := &fakeIndex{available: true, outcome: searchDown("connection refused")}
	svc, _ := newCatalogFixture(repo, index)

	page, err := svc.ListGames(context.Background(), nil, models.GameFilter{})
	require.NoError(t, err)

	assert.Equal(t, "database", page.Source)
	require.Len(t, page.Games, 1)
	assert.Equal(t, "g2", page.Games[0].ID)
	assert.Equal(t, 1, repo.searchCalls)
}

func TestListGames_NoIndexConfigured(t *testing.T) {
	repo := &fakeGameRepo{games: []models.Game{testGame("g3", "Глубины Подгорья")}, total: 1}
	index := &fakeIndex{available: false}
	svc, _ := newCatalogFixture(repo, index)

	page, err := svc.ListGames(context.Background(), nil, models.GameFilter{})
	require.NoError(t, err)

	assert.Equal(t, "database", page.Source)
	assert.Equal(t, 0, index.searchCalls)
}

func TestListGames_SecondCallServedFromCache(t *testing.T) {
	repo := &fakeGameRepo{games: []models.Game{testGame("g1", "Игра")}, total: 1}
	index := &fakeIndex{available: false}
	svc, _ := newCatalogFixture(repo, index)

	filter := models.GameFilter{City: "Алматы"}

	_, err := svc.ListGames(context.Background(), nil, filter)
	require.NoError(t, err)
	require.Equal(t, 1, repo.searchCalls)

	page, err := svc.ListGames(context.Background(), nil, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.searchCalls, "повторный запрос не пересчитывает страницу")
	require.Len(t, page.Games, 1)
}

func TestListGames_InvalidateForcesRecompute(t *testing.T) {
	repo := &fakeGameRepo{games: []models.Game{testGame("g1", "Игра")}, total: 1}
	index := &fakeIndex{available: false}
	svc, _ := newCatalogFixture(repo, index)

	filter := models.GameFilter{}

	_, err := svc.ListGames(context.Background(), nil, filter)
	require.NoError(t, err)

	svc.InvalidateCatalog(context.Background())

	_, err = svc.ListGames(context.Background(), nil, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.searchCalls, "после инвалидации страница считается заново")
}

func TestListGames_PaginationMetadata(t *testing.T) {
	repo := &fakeGameRepo{games: []models.Game{testGame("g1", "Игра")}, total: 25}
	index := &fakeIndex{available: false}
	svc, _ := newCatalogFixture(repo, index)

	page, err := svc.ListGames(context.Background(), nil, models.GameFilter{Page: 2, Limit: 12})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 12, page.Pagination.Limit)
	assert.EqualValues(t, 25, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages, "pages = ceil(25/12)")
}

func TestListGames_LimitClampedToServerMax(t *testing.T) {
	repo := &fakeGameRepo{}
	index := &fakeIndex{available: false}
	svc, _ := newCatalogFixture(repo, index)

	page, err := svc.ListGames(context.Background(), nil, models.GameFilter{Limit: 500})
	require.NoError(t, err)

	assert.Equal(t, models.MaxPageLimit, page.Pagination.Limit)
}

func TestListGames_UnknownEnumGivesEmptyResult(t *testing.T) {
	repo := &fakeGameRepo{}
	index := &fakeIndex{available: true}
	svc, _ := newCatalogFixture(repo, index)

	page, err := svc.ListGames(context.Background(), nil, models.GameFilter{GameSystem: "UNKNOWN_SYSTEM"})
	require.NoError(t, err, "неизвестное значение перечисления - пустая выдача, не ошибка")

	assert.Empty(t, page.Games)
	assert.EqualValues(t, 0, page.Pagination.Total)
	assert.Equal(t, 0, repo.searchCalls)
	assert.Equal(t, 0, index.searchCalls)
}

func TestListGames_CacheErrorIsTreatedAsMiss(t *testing.T) {
	repo := &fakeGameRepo{games: []models.Game{testGame("g1", "Игра")}, total: 1}
	index := &fakeIndex{available: false}

	store := &failingStore{}
	svc := NewCatalogService(repo, repositories.NewUserRepository(), store, index, CatalogTTL{Catalog: time.Minute})

	page, err := svc.ListGames(context.Background(), nil, models.GameFilter{})
	require.NoError(t, err, "отказ кэша не должен ломать запрос")
	require.Len(t, page.Games, 1)
}

func TestListGames_AdminModeBypassesIndex(t *testing.T) {
	inactive := testGame("g2", "Снятая игра")
	inactive.IsActive = false
	repo := &fakeGameRepo{games: []models.Game{testGame("g1", "Игра"), inactive}, total: 2}
	index := &fakeIndex{
		available: true,
		outcome:   searchOk([]search.GameDocument{{ID: "g1", Title: "Игра"}}, 1),
	}
	svc, _ := newCatalogFixture(repo, index)

	page, err := svc.ListGames(context.Background(), nil, models.GameFilter{IncludeInactive: true})
	require.NoError(t, err)

	assert.Equal(t, "database", page.Source, "в индексе нет неактивных игр, админская выборка идет в базу")
	assert.EqualValues(t, 2, page.Pagination.Total)
	assert.Equal(t, 0, index.searchCalls)
	assert.Equal(t, 1, repo.searchCalls)
}

func TestSuggest_DelegatesToIndex(t *testing.T) {
	repo := &fakeGameRepo{}
	index := &fakeIndex{available: true, suggestions: []string{"Проклятье Страда"}}
	svc, _ := newCatalogFixture(repo, index)

	resp := svc.Suggest(context.Background(), "про", 5)
	assert.Equal(t, []string{"Проклятье Страда"}, resp.Suggestions)
}

// failingStore имитирует мертвый Redis: любая операция падает
type failingStore struct{}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, assert.AnError
}
func (f *failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return assert.AnError
}
func (f *failingStore) Delete(ctx context.Context, key string) error         { return assert.AnError }
func (f *failingStore) DeletePattern(ctx context.Context, p string) error    { return assert.AnError }
func (f *failingStore) Close() error                                         { return nil }
