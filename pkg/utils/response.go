package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "glpi-dashboard/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// ErrorResponse переводит ошибку в HTTP-ответ. Внутренние детали
// остаются в логе, клиент видит только сообщение и статус.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "Внутренняя ошибка сервера"

	var httpErr *apperrors.HttpError
	var inputErr *apperrors.InvalidInputError

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &inputErr):
		code = http.StatusBadRequest
		message = inputErr.Message
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrUserNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrInvalidPeriod), errors.Is(err, apperrors.ErrBadRequest):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		code = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired):
		code = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		code = http.StatusForbidden
		message = err.Error()
	}

	if code >= http.StatusInternalServerError {
		logger.Error("ошибка обработки запроса",
			zap.String("uri", ctx.Request().RequestURI),
			zap.Error(err),
		)
	} else {
		logger.Warn("запрос отклонён",
			zap.String("uri", ctx.Request().RequestURI),
			zap.Int("code", code),
			zap.Error(err),
		)
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
