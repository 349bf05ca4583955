package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	GameHandler    *GameHandler
	BookingHandler *BookingHandler
	ReviewHandler  *ReviewHandler
	HealthHandler  *HealthHandler
}
