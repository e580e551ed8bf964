package apperrors

import (
	"fmt"
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок:
профили, рефералы, награды, бронирования.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error, domain string) *AppError {
	return Wrap(err, CodeNotFound, domain, "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error, domain string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, "Resource already exists", http.StatusConflict)
}

// ErrConditionFailed - условная запись проиграла гонку (409).
// Возвращается, когда update с guard-условием затронул 0 строк,
// а сама запись при этом существует.
func ErrConditionFailed(domain, message string) *AppError {
	return New(CodeConditionFailed, domain, message, http.StatusConflict)
}

// ErrIllegalTransition - недопустимый переход статуса бронирования (409)
func ErrIllegalTransition(from, to string) *AppError {
	return New(
		CodeIllegalTransition,
		"booking",
		fmt.Sprintf("Illegal status transition: %s -> %s", from, to),
		http.StatusConflict,
	)
}

// ErrPersistence - ошибка хранилища (сеть, права); без повторов (502)
func ErrPersistence(err error, domain string) *AppError {
	return Wrap(err, CodePersistenceError, domain, "Store operation failed", http.StatusBadGateway)
}

// ErrCodeGenerationExhausted - реферальный код не удалось сгенерировать
// за отведенный бюджет попыток (503)
var ErrCodeGenerationExhausted = New(
	CodeGenerationExhausted,
	"referral",
	"Could not generate a unique referral code",
	http.StatusServiceUnavailable,
)

// ErrInvalidCredentials - неверный email или пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrNotBookingRecipient - переходы статуса разрешены только получателю заявки
var ErrNotBookingRecipient = New(
	CodeForbidden,
	"booking",
	"Only the booking recipient can change its status",
	http.StatusForbidden,
)

// ErrSelfBooking - заявка самому себе не предусмотрена
var ErrSelfBooking = New(
	CodeInvalidOperation,
	"booking",
	"Cannot create a booking request to yourself",
	http.StatusBadRequest,
)
