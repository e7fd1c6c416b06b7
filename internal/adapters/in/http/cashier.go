package http

import (
	"errors"
	"net/http"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/model/selection"
	"pos/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

type (
	// SessionResponse carries a session id with its state.
	SessionResponse struct {
		ID    string         `json:"id"`
		State services.State `json:"state"`
	}

	// WarningResponse reports a rejected selection. The state is unchanged.
	WarningResponse struct {
		Warning string         `json:"warning"`
		State   services.State `json:"state"`
	}

	CategoryRequest struct {
		Category string `json:"category"`
	}

	RecipeRequest struct {
		RecipeID int    `json:"recipe_id"`
		Size     string `json:"size,omitempty"`
	}

	SizeRequest struct {
		Size string `json:"size"`
	}
)

// OpenSession handles POST /cashier/api/sessions/.
func (s *Server) OpenSession(ctx echo.Context) error {
	id, state, err := s.sessions.Create()
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to open session")
	}
	return ctx.JSON(http.StatusCreated, SessionResponse{ID: id.String(), State: state})
}

// GetSession handles GET /cashier/api/sessions/{session}/.
func (s *Server) GetSession(ctx echo.Context) error {
	return s.apply(ctx, func(*services.Composer) error { return nil })
}

// CloseSession handles DELETE /cashier/api/sessions/{session}/.
func (s *Server) CloseSession(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}
	if err := s.sessions.Close(id); err != nil {
		return errorJSON(ctx, statusFor(err), err.Error())
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SetCategory handles POST /cashier/api/sessions/{session}/category/.
func (s *Server) SetCategory(ctx echo.Context) error {
	var req CategoryRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid JSON")
	}
	category, err := menu.ParseCategory(req.Category)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Engine().SetCategory(category)
	})
}

// AddSide handles POST /cashier/api/sessions/{session}/sides/.
func (s *Server) AddSide(ctx echo.Context) error {
	var req RecipeRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid JSON")
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Engine().SelectSide(req.RecipeID)
	})
}

// RemoveSide handles DELETE /cashier/api/sessions/{session}/sides/{recipe}/.
func (s *Server) RemoveSide(ctx echo.Context) error {
	var recipeID int
	if err := bindPathParam(ctx, "recipe", &recipeID); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Engine().RemoveSideUnit(recipeID)
	})
}

// AddEntree handles POST /cashier/api/sessions/{session}/entrees/.
func (s *Server) AddEntree(ctx echo.Context) error {
	var req RecipeRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid JSON")
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Engine().SelectEntreeUnit(req.RecipeID)
	})
}

// RemoveEntree handles DELETE /cashier/api/sessions/{session}/entrees/{recipe}/.
func (s *Server) RemoveEntree(ctx echo.Context) error {
	var recipeID int
	if err := bindPathParam(ctx, "recipe", &recipeID); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Engine().RemoveEntreeUnit(recipeID)
	})
}

// SelectSingleton handles POST /cashier/api/sessions/{session}/singleton/. The
// size defaults to medium.
func (s *Server) SelectSingleton(ctx echo.Context) error {
	var req RecipeRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid JSON")
	}
	var size *menu.Size
	if req.Size != "" {
		parsed, err := menu.ParseSize(req.Size)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, err.Error())
		}
		size = &parsed
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Engine().SelectSingleton(req.RecipeID, size)
	})
}

// ChangeSize handles POST /cashier/api/sessions/{session}/size/.
func (s *Server) ChangeSize(ctx echo.Context) error {
	var req SizeRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid JSON")
	}
	size, err := menu.ParseSize(req.Size)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Engine().ChangeSize(size)
	})
}

// CommitLine handles POST /cashier/api/sessions/{session}/commit/.
func (s *Server) CommitLine(ctx echo.Context) error {
	return s.apply(ctx, func(c *services.Composer) error {
		_, err := c.Commit()
		return err
	})
}

// EditLine handles POST /cashier/api/sessions/{session}/lines/{line}/edit/. Posting
// the line already being edited leaves edit mode.
func (s *Server) EditLine(ctx echo.Context) error {
	var line int
	if err := bindPathParam(ctx, "line", &line); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Edit(order.LineID(line))
	})
}

// RemoveLine handles DELETE /cashier/api/sessions/{session}/lines/{line}/.
func (s *Server) RemoveLine(ctx echo.Context) error {
	var line int
	if err := bindPathParam(ctx, "line", &line); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}
	return s.apply(ctx, func(c *services.Composer) error {
		return c.Remove(order.LineID(line))
	})
}

// SubmitOrder handles POST /cashier/api/sessions/{session}/submit/. A failed
// submission keeps the draft; the cashier may try again.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	id, err := sessionID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	receipt, err := s.sessions.Submit(ctx.Request().Context(), id)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return errorJSON(ctx, status, err.Error())
	}
	return ctx.JSON(http.StatusCreated, receipt)
}

// apply runs fn on the session named in the path. Selection warnings come back as
// 409 with the unchanged state.
func (s *Server) apply(ctx echo.Context, fn func(*services.Composer) error) error {
	id, err := sessionID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	state, err := s.sessions.Do(id, fn)
	if err != nil {
		var w *selection.Warning
		if errors.As(err, &w) {
			return ctx.JSON(http.StatusConflict, WarningResponse{Warning: w.Message, State: state})
		}
		return errorJSON(ctx, statusFor(err), err.Error())
	}
	return ctx.JSON(http.StatusOK, SessionResponse{ID: id.String(), State: state})
}

func sessionID(ctx echo.Context) (kernel.UUID, error) {
	var raw string
	if err := bindPathParam(ctx, "session", &raw); err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(raw)
}
