package http

import (
	"errors"
	"net/http"

	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// StatusRequest is the body of a kitchen status update.
type StatusRequest struct {
	Status string `json:"status"`
}

// StatusResponse confirms a stored status.
type StatusResponse struct {
	Success bool   `json:"success"`
	ID      int    `json:"id"`
	Status  string `json:"status"`
}

// GetKitchenOrders handles GET /kitchen/api/orders/ - the bootstrap snapshot of
// recent tickets, newest first. The CSRF cookie is set on the way out.
func (s *Server) GetKitchenOrders(ctx echo.Context) error {
	limit := s.bootstrapLimit
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &limit); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid format for parameter limit: "+err.Error())
	}

	query, err := queries.NewGetRecentOrdersQuery(limit)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	orders, err := s.recentOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "loading recent orders failed", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	return ctx.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus handles POST /kitchen/api/orders/{id}/status/.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	var id int
	if err := bindPathParam(ctx, "id", &id); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	var req StatusRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid JSON")
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(id, req.Status)
	if err != nil {
		if errors.Is(err, commands.ErrStatusIsRequired) {
			return errorJSON(ctx, http.StatusBadRequest, "Missing status")
		}
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	status, err := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		}
		s.logger.ErrorContext(ctx.Request().Context(), "status update failed", "order_id", id, "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to update status")
	}

	return ctx.JSON(http.StatusOK, StatusResponse{Success: true, ID: id, Status: status.String()})
}

func bindPathParam(ctx echo.Context, name string, dest any) error {
	return runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
}
