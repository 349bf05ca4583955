package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/repositories"
	"github.com/RanchesW/KazRPG/internal/services/dto"
	"github.com/RanchesW/KazRPG/internal/workers"
)

// fakeMutGameRepo перехватывает методы мутаций, остальное паникует
type fakeMutGameRepo struct {
	repositories.GameRepository
	game *models.Game
}

func (f *fakeMutGameRepo) FindGameByID(db *gorm.DB, id string) (*models.Game, error) {
	return f.game, nil
}

func (f *fakeMutGameRepo) UpdateGame(db *gorm.DB, game *models.Game) error { return nil }

type fakeUserRepo struct {
	repositories.UserRepository
	user *models.User
}

func (f *fakeUserRepo) FindUserByID(db *gorm.DB, id string) (*models.User, error) {
	return f.user, nil
}

// recordingQueue собирает задания вместо отправки воркеру
type recordingQueue struct {
	jobs []workers.IndexJob
}

func (q *recordingQueue) Enqueue(job workers.IndexJob) { q.jobs = append(q.jobs, job) }

func newGameFixture(game *models.Game, gm *models.User) (GameService, *recordingQueue) {
	catalog, _ := newCatalogFixture(&fakeGameRepo{}, &fakeIndex{})
	queue := &recordingQueue{}
	svc := NewGameService(&fakeMutGameRepo{game: game}, &fakeUserRepo{user: gm}, catalog, queue, nil)
	return svc, queue
}

func testGM(id string) *models.User {
	u := &models.User{Username: "gm", IsGM: true, Role: models.UserRolePlayer}
	u.ID = id
	return u
}

func TestUpdateGame_DeactivationRemovesFromIndex(t *testing.T) {
	game := testGame("game-1", "Игра")
	svc, queue := newGameFixture(&game, testGM("gm-1"))

	inactive := false
	req := dto.UpdateGameRequest{IsActive: &inactive}
	_, err := svc.UpdateGame(context.Background(), nil, "gm-1", "game-1", &req)
	require.NoError(t, err)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, workers.DeleteGame("game-1"), queue.jobs[0],
		"деактивация должна убирать документ из индекса, а не переписывать его")
}

func TestUpdateGame_ActiveGameIsReindexed(t *testing.T) {
	game := testGame("game-1", "Игра")
	svc, queue := newGameFixture(&game, testGM("gm-1"))

	title := "Новое название"
	req := dto.UpdateGameRequest{Title: &title}
	_, err := svc.UpdateGame(context.Background(), nil, "gm-1", "game-1", &req)
	require.NoError(t, err)

	require.Len(t, queue.jobs, 1)
	assert.NotEqual(t, workers.DeleteGame("game-1"), queue.jobs[0])
}

func TestUpdateGame_ReactivationReindexes(t *testing.T) {
	game := testGame("game-1", "Игра")
	game.IsActive = false
	svc, queue := newGameFixture(&game, testGM("gm-1"))

	active := true
	req := dto.UpdateGameRequest{IsActive: &active}
	_, err := svc.UpdateGame(context.Background(), nil, "gm-1", "game-1", &req)
	require.NoError(t, err)

	require.Len(t, queue.jobs, 1)
	assert.NotEqual(t, workers.DeleteGame("game-1"), queue.jobs[0],
		"возврат в активное состояние должен снова индексировать игру")
}
