package http

import (
	"context"
	"log/slog"
	"net/http"

	"pos/internal/core/application/cashier"
	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// CSRFCookie and CSRFHeader carry the token guarding kitchen status updates.
	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFToken"
)

type (
	// OrderCreator places a verified order and returns its id.
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (int, error)
	}

	// OrderStatusUpdater stores a kitchen status change.
	OrderStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (order.Status, error)
	}

	// RecentOrdersReader loads the newest tickets for display bootstrap.
	RecentOrdersReader interface {
		Handle(ctx context.Context, query queries.GetRecentOrdersQuery) ([]kitchen.Order, error)
	}
)

// Server holds the handlers behind every HTTP route.
type Server struct {
	// Command handlers
	createOrderHandler  OrderCreator
	updateStatusHandler OrderStatusUpdater

	// Query handlers
	recentOrdersHandler RecentOrdersReader

	catalog        *menu.Catalog
	sessions       *cashier.Store
	channel        http.Handler
	bootstrapLimit int
	logger         *slog.Logger
}

// NewServer creates a server. channel serves the kitchen websocket.
func NewServer(
	createOrderHandler OrderCreator,
	updateStatusHandler OrderStatusUpdater,
	recentOrdersHandler RecentOrdersReader,
	catalog *menu.Catalog,
	sessions *cashier.Store,
	channel http.Handler,
	bootstrapLimit int,
	logger *slog.Logger,
) *Server {
	if bootstrapLimit <= 0 {
		bootstrapLimit = queries.DefaultRecentOrdersLimit
	}
	return &Server{
		createOrderHandler:  createOrderHandler,
		updateStatusHandler: updateStatusHandler,
		recentOrdersHandler: recentOrdersHandler,
		catalog:             catalog,
		sessions:            sessions,
		channel:             channel,
		bootstrapLimit:      bootstrapLimit,
		logger:              logger.With("component", "http_server"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/api/menu/", s.GetMenu)
	e.POST("/api/orders/create-order/", s.CreateOrder)
	if s.channel != nil {
		e.GET("/ws/orders/", echo.WrapHandler(s.channel))
	}

	k := e.Group("/kitchen/api", middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + CSRFHeader,
		CookieName:     CSRFCookie,
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.JSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "CSRF verification failed",
			})
		},
	}))
	k.GET("/orders/", s.GetKitchenOrders)
	k.POST("/orders/:id/status/", s.UpdateOrderStatus)

	if s.sessions != nil {
		c := e.Group("/cashier/api/sessions")
		c.POST("/", s.OpenSession)
		c.GET("/:session/", s.GetSession)
		c.DELETE("/:session/", s.CloseSession)
		c.POST("/:session/category/", s.SetCategory)
		c.POST("/:session/sides/", s.AddSide)
		c.DELETE("/:session/sides/:recipe/", s.RemoveSide)
		c.POST("/:session/entrees/", s.AddEntree)
		c.DELETE("/:session/entrees/:recipe/", s.RemoveEntree)
		c.POST("/:session/singleton/", s.SelectSingleton)
		c.POST("/:session/size/", s.ChangeSize)
		c.POST("/:session/commit/", s.CommitLine)
		c.POST("/:session/lines/:line/edit/", s.EditLine)
		c.DELETE("/:session/lines/:line/", s.RemoveLine)
		c.POST("/:session/submit/", s.SubmitOrder)
	}
}

// GetMenu handles GET /api/menu/ - the catalog with every price table.
func (s *Server) GetMenu(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.catalog)
}
