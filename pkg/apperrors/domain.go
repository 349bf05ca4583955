package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для общих ошибок
бизнес-логики каталога игр.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrGameFull - в игре не осталось мест
var ErrGameFull = New(
	CodeConflict,
	"booking",
	"No seats left in this game",
	http.StatusConflict,
)

// ErrNotGameMaster - операция доступна только мастеру игры
var ErrNotGameMaster = New(
	CodeForbidden,
	"game",
	"Only the game master can perform this operation",
	http.StatusForbidden,
)

// ErrSearchUnavailable - операция требует живого поискового индекса
var ErrSearchUnavailable = New(
	CodeSearchUnavailable,
	"search",
	"Search index is not available",
	http.StatusServiceUnavailable,
)
