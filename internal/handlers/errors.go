package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/agamariel/parcerogo/internal/services"
	"github.com/labstack/echo/v4"
)

// ErrorResponse - тело любой ошибки мок-бэкенда.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

const invalidBodyMessage = "Cuerpo de la solicitud inválido"

// toHTTPError переводит ошибку сервиса в echo.HTTPError с подходящим статусом.
func toHTTPError(err error) *echo.HTTPError {
	var se *services.Error
	if !errors.As(err, &se) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	switch se.Kind {
	case services.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, se.Message)
	case services.KindValidation, services.KindConflict:
		return echo.NewHTTPError(http.StatusBadRequest, se.Message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, se.Message).SetInternal(err)
	}
}

// ErrorHandler отдаёт любую ошибку в виде {"detail": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		detail = fmt.Sprint(he.Message)
		if he.Internal != nil {
			c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, he.Internal)
		}
	} else {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, ErrorResponse{Detail: detail})
	}
	if writeErr != nil {
		c.Logger().Errorf("write error response: %v", writeErr)
	}
}
