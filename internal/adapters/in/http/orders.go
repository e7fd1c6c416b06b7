package http

import (
	"errors"
	"net/http"

	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/domain/model/order"
	"pos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrderResponse answers POST /api/orders/create-order/.
type CreateOrderResponse struct {
	Success bool   `json:"success"`
	OrderID int    `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateOrder handles POST /api/orders/create-order/ - places a submitted order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var submission order.Submission
	if err := ctx.Bind(&submission); err != nil {
		return ctx.JSON(http.StatusBadRequest, CreateOrderResponse{Error: "Invalid JSON"})
	}

	cmd, err := commands.CreateOrderCommandFromSubmission(submission)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, commands.ErrItemsAreRequired) {
			msg = "No items in order"
		}
		return ctx.JSON(http.StatusBadRequest, CreateOrderResponse{Error: msg})
	}

	orderID, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if isRejected(err) {
			return ctx.JSON(http.StatusBadRequest, CreateOrderResponse{Error: err.Error()})
		}
		s.logger.ErrorContext(ctx.Request().Context(), "order placement failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, CreateOrderResponse{Error: "Failed to create order"})
	}

	return ctx.JSON(http.StatusOK, CreateOrderResponse{
		Success: true,
		OrderID: orderID,
		Message: "Order created successfully",
	})
}

// isRejected reports whether err is the submitter's fault.
func isRejected(err error) bool {
	return errors.Is(err, commands.ErrPriceMismatch) ||
		errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}
