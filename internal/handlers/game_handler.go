package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RanchesW/KazRPG/internal/middleware"
	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/services"
	"github.com/RanchesW/KazRPG/internal/services/dto"
	"github.com/RanchesW/KazRPG/internal/validator"
)

type GameHandler struct {
	*BaseHandler
	catalogService services.CatalogService
	gameService    services.GameService
}

func NewGameHandler(v *validator.Validator, catalog services.CatalogService, games services.GameService) *GameHandler {
	return &GameHandler{
		BaseHandler:    NewBaseHandler(v),
		catalogService: catalog,
		gameService:    games,
	}
}

// ListGames - GET /games: страница каталога с фильтрами из query-параметров
func (h *GameHandler) ListGames(c *gin.Context) {
	var filter models.GameFilter
	if !h.BindAndValidateQuery(c, &filter) {
		return
	}

	// публичный каталог: только активные будущие игры
	filter.IncludeInactive = false
	filter.IncludePast = false

	page, err := h.catalogService.ListGames(c.Request.Context(), h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListGamesAdmin - GET /admin/games: выдача без публичных ограничений
func (h *GameHandler) ListGamesAdmin(c *gin.Context) {
	var filter models.GameFilter
	if !h.BindAndValidateQuery(c, &filter) {
		return
	}

	filter.IncludeInactive = true
	filter.IncludePast = true

	page, err := h.catalogService.ListGames(c.Request.Context(), h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetGame - GET /games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.catalogService.GetGame(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// Suggest - GET /games/suggestions?query=...
func (h *GameHandler) Suggest(c *gin.Context) {
	prefix := c.Query("query")
	limit := ParseQueryInt(c, "limit", 10)
	c.JSON(http.StatusOK, h.catalogService.Suggest(c.Request.Context(), prefix, limit))
}

// CreateGame - POST /games (только мастера)
func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateGameRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	game, err := h.gameService.CreateGame(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// UpdateGame - PUT /games/:id
func (h *GameHandler) UpdateGame(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateGameRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	game, err := h.gameService.UpdateGame(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// DeleteGame - DELETE /games/:id
func (h *GameHandler) DeleteGame(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.gameService.DeleteGame(c.Request.Context(), h.GetDB(c), userID, middleware.IsAdmin(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// MyGames - GET /games/mine: листинги текущего мастера
func (h *GameHandler) MyGames(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	games, err := h.gameService.GetGamesByGM(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// Reindex - POST /admin/reindex: полная пересборка поискового индекса
func (h *GameHandler) Reindex(c *gin.Context) {
	count, err := h.gameService.ReindexAll(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexed": count})
}
