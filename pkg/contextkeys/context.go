package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому храним *gorm.DB в context.
// Тесты кладут сюда транзакцию, DBMiddleware - основной пул.
const DBContextKey = contextKey("db")
