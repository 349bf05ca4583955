package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	CatalogService CatalogService
	GameService    GameService
	BookingService BookingService
	ReviewService  ReviewService
}
