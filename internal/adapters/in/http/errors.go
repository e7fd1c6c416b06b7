package http

import (
	"errors"
	"net/http"

	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/domain/model/selection"
	"pos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed kitchen and cashier request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps domain error classes to HTTP status codes.
func statusFor(err error) int {
	var w *selection.Warning
	switch {
	case errors.As(err, &w):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrPriceMismatch),
		errors.Is(err, commands.ErrItemsAreRequired),
		errors.Is(err, commands.ErrStatusIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrLimitExceeded):
		return http.StatusConflict
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func errorJSON(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, ErrorResponse{Code: status, Message: message})
}
