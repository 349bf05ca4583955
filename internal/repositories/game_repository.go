package repositories

import (
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/models"
)

var (
	ErrGameNotFound = errors.New("game not found")
)

type GameRepository interface {
	CreateGame(db *gorm.DB, game *models.Game) error
	FindGameByID(db *gorm.DB, id string) (*models.Game, error)
	FindGamesByGM(db *gorm.DB, gmID string) ([]models.Game, error)
	UpdateGame(db *gorm.DB, game *models.Game) error
	DeleteGame(db *gorm.DB, id string) error
	DeactivateGame(db *gorm.DB, id string) error

	// Поиск по реляционной базе: основной путь каталога и
	// запасной, когда индекс недоступен
	SearchGames(db *gorm.DB, filter models.GameFilter) ([]models.Game, int64, error)

	// Для полной переиндексации
	FindAllActiveGames(db *gorm.DB) ([]models.Game, error)

	AdjustCurrentPlayers(db *gorm.DB, id string, delta int) error
	CountActiveGamesByGM(db *gorm.DB, gmID string) (int64, error)
	CountPastGamesByGM(db *gorm.DB, gmID string) (int64, error)
	HasBookings(db *gorm.DB, gameID string) (bool, error)
}

type GameRepositoryImpl struct{}

func NewGameRepository() GameRepository {
	return &GameRepositoryImpl{}
}

func (r *GameRepositoryImpl) CreateGame(db *gorm.DB, game *models.Game) error {
	return db.Create(game).Error
}

func (r *GameRepositoryImpl) FindGameByID(db *gorm.DB, id string) (*models.Game, error) {
	var game models.Game
	err := db.Preload("GM").Where("id = ?", id).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

func (r *GameRepositoryImpl) FindGamesByGM(db *gorm.DB, gmID string) ([]models.Game, error) {
	var games []models.Game
	err := db.Where("gm_id = ?", gmID).Order("created_at DESC").Find(&games).Error
	return games, err
}

func (r *GameRepositoryImpl) UpdateGame(db *gorm.DB, game *models.Game) error {
	return db.Save(game).Error
}

func (r *GameRepositoryImpl) DeleteGame(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Game{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *GameRepositoryImpl) DeactivateGame(db *gorm.DB, id string) error {
	result := db.Model(&models.Game{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// SearchGames выполняет подсчет и выборку страницы параллельно.
// Каждая горутина работает со своей сессией, т.к. *gorm.DB с условиями
// нельзя разделять между горутинами.
func (r *GameRepositoryImpl) SearchGames(db *gorm.DB, filter models.GameFilter) ([]models.Game, int64, error) {
	var (
		games []models.Game
		total int64
	)

	g := new(errgroup.Group)

	g.Go(func() error {
		query := applyGameFilter(db.Session(&gorm.Session{}).Model(&models.Game{}), filter)
		return query.Count(&total).Error
	})

	g.Go(func() error {
		query := applyGameFilter(db.Session(&gorm.Session{}).Model(&models.Game{}), filter)
		query = applyGameSort(query, filter.Sort)
		offset := (filter.Page - 1) * filter.Limit
		return query.Preload("GM").Offset(offset).Limit(filter.Limit).Find(&games).Error
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

func (r *GameRepositoryImpl) FindAllActiveGames(db *gorm.DB) ([]models.Game, error) {
	var games []models.Game
	err := db.Preload("GM").Where("is_active = ?", true).Find(&games).Error
	return games, err
}

// AdjustCurrentPlayers атомарно меняет счетчик занятых мест
func (r *GameRepositoryImpl) AdjustCurrentPlayers(db *gorm.DB, id string, delta int) error {
	result := db.Model(&models.Game{}).
		Where("id = ?", id).
		Update("current_players", gorm.Expr("current_players + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *GameRepositoryImpl) CountActiveGamesByGM(db *gorm.DB, gmID string) (int64, error) {
	var count int64
	err := db.Model(&models.Game{}).
		Where("gm_id = ? AND is_active = ?", gmID, true).
		Count(&count).Error
	return count, err
}

// CountPastGamesByGM считает проведенные сессии мастера
func (r *GameRepositoryImpl) CountPastGamesByGM(db *gorm.DB, gmID string) (int64, error) {
	var count int64
	err := db.Model(&models.Game{}).
		Where("gm_id = ? AND start_date < ?", gmID, time.Now().UTC()).
		Count(&count).Error
	return count, err
}

func (r *GameRepositoryImpl) HasBookings(db *gorm.DB, gameID string) (bool, error) {
	var count int64
	err := db.Model(&models.Booking{}).
		Where("game_id = ? AND status IN ?", gameID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&count).Error
	return count > 0, err
}

// applyGameFilter переводит фильтр каталога в условия WHERE
func applyGameFilter(query *gorm.DB, filter models.GameFilter) *gorm.DB {
	if !filter.IncludeInactive {
		query = query.Where("games.is_active = ?", true)
	}
	if !filter.IncludePast {
		query = query.Where("games.start_date >= ?", time.Now().UTC())
	}

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(
			"games.title ILIKE ? OR games.description ILIKE ? OR games.tags::text ILIKE ?",
			like, like, like,
		)
	}
	if filter.City != "" {
		query = query.Where("games.city = ?", filter.City)
	}
	if filter.GameSystem != "" {
		query = query.Where("games.game_system = ?", filter.GameSystem)
	}
	if filter.Difficulty != "" {
		query = query.Where("games.difficulty = ?", filter.Difficulty)
	}
	if filter.Language != "" {
		query = query.Where("games.language = ?", filter.Language)
	}
	if filter.IsOnline != nil {
		query = query.Where("games.is_online = ?", *filter.IsOnline)
	}
	if filter.MinPrice != nil {
		query = query.Where("games.price_per_session >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("games.price_per_session <= ?", *filter.MaxPrice)
	}
	if filter.DateFrom != nil {
		query = query.Where("games.start_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("games.start_date <= ?", *filter.DateTo)
	}

	// Lat/Lon/RadiusKm здесь не применяются: гео-радиус умеет только индекс
	// (geo_distance). Реляционный путь отдает выборку без гео-среза.
	return query
}

func applyGameSort(query *gorm.DB, mode models.SortMode) *gorm.DB {
	switch mode {
	case models.SortDate:
		return query.Order("games.start_date ASC")
	case models.SortPrice:
		return query.Order("games.price_per_session ASC NULLS LAST")
	case models.SortRating:
		return query.
			Joins("JOIN users ON users.id = games.gm_id").
			Order("users.rating DESC, users.is_verified DESC")
	default:
		// без индекса релевантности нет: ближайшие по дате первыми
		return query.Order("games.start_date ASC, games.created_at DESC")
	}
}
