package cmd

import (
	"log/slog"

	httpin "pos/internal/adapters/in/http"
	"pos/internal/adapters/in/ws"
	"pos/internal/adapters/out/orderservice"
	"pos/internal/adapters/out/postgres"
	"pos/internal/adapters/out/redisrelay"
	"pos/internal/core/application/cashier"
	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/services"
	"pos/internal/core/ports"
	"pos/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	catalog    *menu.Catalog
	calculator *services.PriceCalculator
	hub        *ws.Hub
	redis      *redis.Client
	relay      *redisrelay.Relay
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	catalog, err := menu.LoadCatalog(cfg.MenuCatalogPath)
	if err != nil {
		return CompositionRoot{}, err
	}

	root := CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalog,
		calculator: services.NewPriceCalculator(catalog.PriceBook()),
		hub:        ws.NewHub(cfg.HubSubscriberBuffer, logger),
		logger:     logger,
	}
	if cfg.RedisAddr != "" {
		root.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		root.relay = redisrelay.NewRelay(root.redis, cfg.RedisChannel, root.hub, logger)
	}
	return root, nil
}

// Hub returns the websocket hub of this instance.
func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

// Relay returns the redis relay, nil when REDIS_ADDR is not set.
func (c *CompositionRoot) Relay() *redisrelay.Relay {
	return c.relay
}

// Publisher goes through redis when configured so every instance sees every
// event; otherwise events go straight to the local hub.
func (c *CompositionRoot) Publisher() ports.EventPublisher {
	if c.relay != nil {
		return c.relay
	}
	return c.hub
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.catalog, c.calculator, c.Publisher(), c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.Publisher(), c.logger)
}

func (c *CompositionRoot) CreatePublishLowStockCommandHandler() commands.PublishLowStockCommandHandler {
	var f commands.InventoryUoWFactory = FuncInventoryUoWFactory(func() commands.InventoryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPublishLowStockCommandHandler(f, c.Publisher())
}

func (c *CompositionRoot) CreateGetRecentOrdersQueryHandler() queries.GetRecentOrdersQueryHandler {
	return queries.NewGetRecentOrdersQueryHandler(c.gormDB)
}

// CreateOrderGateway places cashier orders with a remote order service when
// ORDER_SERVICE_URL is set, else in process.
func (c *CompositionRoot) CreateOrderGateway() ports.OrderGateway {
	if c.cfg.OrderServiceURL != "" {
		return orderservice.NewClient(c.cfg.OrderServiceURL, nil)
	}
	handler := c.CreateCreateOrderCommandHandler()
	return orderservice.NewLocal(&handler)
}

func (c *CompositionRoot) CreateCashierStore() (*cashier.Store, error) {
	return cashier.NewStore(c.catalog, c.calculator, c.CreateOrderGateway(), c.logger)
}

func (c *CompositionRoot) CreateServer(sessions *cashier.Store) *httpin.Server {
	createOrder := c.CreateCreateOrderCommandHandler()
	updateStatus := c.CreateUpdateOrderStatusCommandHandler()
	return httpin.NewServer(
		&createOrder,
		&updateStatus,
		c.CreateGetRecentOrdersQueryHandler(),
		c.catalog,
		sessions,
		c.hub.Handler(),
		c.cfg.BootstrapLimit,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager(sessions *cashier.Store) *jobs.JobManager {
	lowStock := c.CreatePublishLowStockCommandHandler()
	return jobs.NewJobManager(&lowStock, c.cfg.LowStockSchedule, sessions, c.cfg.SessionIdleTTL, c.logger)
}

// Close disconnects displays and releases the redis client.
func (c *CompositionRoot) Close() error {
	c.hub.Close()
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncInventoryUoWFactory func() commands.InventoryUoW

func (f FuncInventoryUoWFactory) Create() commands.InventoryUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
