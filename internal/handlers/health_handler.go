package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/cache"
)

// SearchHealth - то, что хендлеру здоровья нужно от поискового адаптера
type SearchHealth interface {
	HealthCheck(ctx context.Context) map[string]interface{}
}

type HealthHandler struct {
	db     *gorm.DB
	store  cache.Store
	search SearchHealth
}

func NewHealthHandler(db *gorm.DB, store cache.Store, search SearchHealth) *HealthHandler {
	return &HealthHandler{db: db, store: store, search: search}
}

// Health - GET /health. Недоступность кэша или поискового индекса не роняет
// статус: каталог продолжает работать на реляционной базе.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	dbStatus := "healthy"

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	// промах по несуществующему ключу - нормальный ответ живого кэша
	cacheStatus := "healthy"
	if _, err := h.store.Get(ctx, "health:probe"); err != nil && err != cache.ErrCacheMiss {
		cacheStatus = "unhealthy"
	}

	var searchStatus interface{} = map[string]interface{}{"status": "disabled"}
	if h.search != nil {
		searchStatus = h.search.HealthCheck(ctx)
	}

	c.JSON(status, gin.H{
		"status":   dbStatus,
		"database": dbStatus,
		"cache":    cacheStatus,
		"search":   searchStatus,
	})
}
