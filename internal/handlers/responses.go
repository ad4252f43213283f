package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/mesto/internal/domain"
)

// MessageResponse is the body of API answers that carry no record.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusFor maps domain errors onto HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DomainError converts err into an echo.HTTPError. Internal errors keep the
// cause for logging but show a generic message.
func DomainError(err error) *echo.HTTPError {
	status := StatusFor(err)
	msg := messages[status]
	he := echo.NewHTTPError(status, msg)
	if status == http.StatusInternalServerError {
		he = he.SetInternal(err)
	}
	return he
}

var messages = map[int]string{
	http.StatusNotFound:            "Запрашиваемый ресурс не найден",
	http.StatusForbidden:           "Недостаточно прав для выполнения операции",
	http.StatusUnauthorized:        "Необходима авторизация",
	http.StatusBadRequest:          "Переданы некорректные данные",
	http.StatusInternalServerError: "На сервере произошла ошибка",
}
