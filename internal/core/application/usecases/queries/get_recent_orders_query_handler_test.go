package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "pos/internal/adapters/out/postgres"
	"pos/internal/adapters/out/postgres/orderrepo"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetRecentOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetRecentOrdersQueryHandler
	orderRepo *orderrepo.GormOrderRepository
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.handler = queries.NewGetRecentOrdersQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db)
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE recipe_orders, order_items, orders RESTART IDENTITY").Error
	suite.Require().NoError(err)
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	result, err := suite.handler.Handle(context.Background(), suite.query(50))

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) TestHandle_NewestFirstWithLimit() {
	base := time.Date(2025, 5, 1, 11, 0, 0, 0, time.UTC)
	first := suite.place(base, order.Pending)
	second := suite.place(base.Add(time.Minute), order.Completed)
	third := suite.place(base.Add(2*time.Minute), order.Cancelled)

	result, err := suite.handler.Handle(context.Background(), suite.query(2))
	suite.Require().NoError(err)
	suite.Require().Len(result, 2)

	suite.Equal(third.ID(), result[0].ID)
	suite.Equal(order.Cancelled, result[0].Status)
	suite.Equal(second.ID(), result[1].ID)
	suite.Equal(order.Completed, result[1].Status)
	suite.NotEqual(first.ID(), result[1].ID)
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) TestHandle_RendersDisplayGroups() {
	placed := suite.place(time.Now().UTC(), order.Pending)

	result, err := suite.handler.Handle(context.Background(), suite.query(10))
	suite.Require().NoError(err)
	suite.Require().Len(result, 1)

	ticket := result[0]
	suite.Equal(placed.ID(), ticket.ID)
	suite.Equal("13.42", ticket.Total.String())
	suite.Require().Len(ticket.Groups, 2)

	suite.Equal("Bigger Plate", ticket.Groups[0].Title)
	suite.Equal([]string{"2x Orange Chicken", "Beijing Beef", "Chow Mein (half)", "Fried Rice (half)"},
		ticket.Groups[0].Lines)
	suite.Equal("Drink", ticket.Groups[1].Title)
	suite.Equal([]string{"Coca Cola (L)"}, ticket.Groups[1].Lines)
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := suite.handler.Handle(context.Background(), queries.GetRecentOrdersQuery{})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetRecentOrdersQuery constructor")
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) TestHandle_ContextCancellation_ReturnsError() {
	suite.place(time.Now().UTC(), order.Pending)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suite.handler.Handle(ctx, suite.query(10))

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) query(limit int) queries.GetRecentOrdersQuery {
	q, err := queries.NewGetRecentOrdersQuery(limit)
	suite.Require().NoError(err)
	return q
}

func (suite *GetRecentOrdersQueryHandlerTestSuite) place(at time.Time, status order.Status) *order.PlacedOrder {
	large := menu.Large
	items := []order.Item{
		{
			Category: menu.BiggerPlate,
			Recipes: []menu.Recipe{
				{ID: 15, Name: "Chow Mein", Type: menu.TypeSide, Half: true},
				{ID: 16, Name: "Fried Rice", Type: menu.TypeSide, Half: true},
				{ID: 1, Name: "Orange Chicken", Type: menu.TypeEntree, Price: kernel.MustMoney("1.50")},
				{ID: 1, Name: "Orange Chicken", Type: menu.TypeEntree, Price: kernel.MustMoney("1.50")},
				{ID: 2, Name: "Beijing Beef", Type: menu.TypeEntree},
			},
			Price: kernel.MustMoney("17.05"),
		},
		{
			Category: menu.Drink,
			Recipes:  []menu.Recipe{{ID: 24, Name: "Coca Cola", Type: menu.TypeDrink, Size: &large}},
			Price:    kernel.MustMoney("2.60"),
		},
	}
	placed, err := order.NewPlacedOrder(items, kernel.MustMoney("13.42"), at, nil)
	suite.Require().NoError(err)
	suite.Require().NoError(placed.UpdateStatus(status))
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), placed))
	return placed
}

func TestGetRecentOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetRecentOrdersQueryHandlerTestSuite))
}
