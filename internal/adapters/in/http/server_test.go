package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "pos/internal/adapters/in/http"
	"pos/internal/core/application/cashier"
	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/application/usecases/queries"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/menu"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/domain/services"
	"pos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderCreator struct{ mock.Mock }

func (m *MockOrderCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

type MockStatusUpdater struct{ mock.Mock }

func (m *MockStatusUpdater) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (order.Status, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(order.Status), args.Error(1)
}

type MockRecentOrders struct{ mock.Mock }

func (m *MockRecentOrders) Handle(ctx context.Context, query queries.GetRecentOrdersQuery) ([]kitchen.Order, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kitchen.Order), args.Error(1)
}

type MockSubmitter struct{ mock.Mock }

func (m *MockSubmitter) CreateOrder(ctx context.Context, submission order.Submission) (int, error) {
	args := m.Called(ctx, submission)
	return args.Int(0), args.Error(1)
}

type fixture struct {
	echo      *echo.Echo
	creator   *MockOrderCreator
	updater   *MockStatusUpdater
	recent    *MockRecentOrders
	submitter *MockSubmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	catalog := menu.DefaultCatalog()

	f := &fixture{
		echo:      echo.New(),
		creator:   new(MockOrderCreator),
		updater:   new(MockStatusUpdater),
		recent:    new(MockRecentOrders),
		submitter: new(MockSubmitter),
	}
	store, err := cashier.NewStore(catalog, services.NewPriceCalculator(catalog.PriceBook()), f.submitter, logger)
	require.NoError(t, err)

	server := httpin.NewServer(f.creator, f.updater, f.recent, catalog, store, nil, 50, logger)
	server.Register(f.echo)
	return f
}

func (f *fixture) do(method, path, body string, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func withCSRF(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: httpin.CSRFCookie, Value: token})
		req.Header.Set(httpin.CSRFHeader, token)
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestGetMenu(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/menu/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]json.RawMessage](t, rec)
	assert.Contains(t, body, "recipes")
	assert.Contains(t, body, "drinks")
	assert.Contains(t, body, "has_sizes")
}

const drinkSubmission = `{
	"orderItems": [{
		"menuItemName": "Coca Cola",
		"category": "drink",
		"recipes": [{"id": 24, "name": "Coca Cola", "type": "Drink", "size": "L"}],
		"price": 2.60
	}],
	"totalPrice": 2.81
}`

func TestCreateOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.creator.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			return len(cmd.Items()) == 1 && cmd.Total().String() == "2.81"
		})).Return(12, nil).Once()

		rec := f.do(http.MethodPost, "/api/orders/create-order/", drinkSubmission)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[httpin.CreateOrderResponse](t, rec)
		assert.True(t, body.Success)
		assert.Equal(t, 12, body.OrderID)
		f.creator.AssertExpectations(t)
	})

	t.Run("invalid json", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/api/orders/create-order/", `{"orderItems": [`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[httpin.CreateOrderResponse](t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, "Invalid JSON", body.Error)
		f.creator.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("no items", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/api/orders/create-order/", `{"orderItems": [], "totalPrice": 0}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No items in order", decode[httpin.CreateOrderResponse](t, rec).Error)
	})

	t.Run("price mismatch", func(t *testing.T) {
		f := newFixture(t)
		f.creator.On("Handle", mock.Anything, mock.Anything).
			Return(0, fmt.Errorf("%w: total priced 2.00, menu total 2.81", commands.ErrPriceMismatch)).Once()

		rec := f.do(http.MethodPost, "/api/orders/create-order/", drinkSubmission)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[httpin.CreateOrderResponse](t, rec).Error, "does not match")
	})

	t.Run("persistence failure", func(t *testing.T) {
		f := newFixture(t)
		f.creator.On("Handle", mock.Anything, mock.Anything).Return(0, errors.New("connection refused")).Once()

		rec := f.do(http.MethodPost, "/api/orders/create-order/", drinkSubmission)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, decode[httpin.CreateOrderResponse](t, rec).Success)
	})
}

func TestGetKitchenOrders(t *testing.T) {
	f := newFixture(t)
	tickets := []kitchen.Order{{
		ID:       5,
		PlacedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Groups:   []kitchen.DisplayGroup{{Category: "drink", Title: "Drink", Lines: []string{"Coca Cola (L)"}}},
		Status:   order.Pending,
		Total:    kernel.MustMoney("2.81"),
	}}
	f.recent.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRecentOrdersQuery) bool {
		return q.Limit() == 50
	})).Return(tickets, nil).Once()

	rec := f.do(http.MethodGet, "/kitchen/api/orders/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[[]map[string]any](t, rec)
	require.Len(t, body, 1)
	assert.EqualValues(t, 5, body[0]["order_id"])
	assert.Equal(t, "pending", body[0]["status"])

	var csrf *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpin.CSRFCookie {
			csrf = c
		}
	}
	require.NotNil(t, csrf, "bootstrap sets the csrf cookie")
	assert.NotEmpty(t, csrf.Value)
}

func TestGetKitchenOrders_Limit(t *testing.T) {
	f := newFixture(t)
	f.recent.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRecentOrdersQuery) bool {
		return q.Limit() == 10
	})).Return([]kitchen.Order{}, nil).Once()

	rec := f.do(http.MethodGet, "/kitchen/api/orders/?limit=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(http.MethodGet, "/kitchen/api/orders/?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/kitchen/api/orders/?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	const token = "4f3c2b1a4f3c2b1a4f3c2b1a4f3c2b1a"

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.updater.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateOrderStatusCommand) bool {
			return cmd.OrderID() == 7 && cmd.Status() == order.Completed
		})).Return(order.Completed, nil).Once()

		rec := f.do(http.MethodPost, "/kitchen/api/orders/7/status/", `{"status": "done"}`, withCSRF(token))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, httpin.StatusResponse{Success: true, ID: 7, Status: "completed"}, decode[httpin.StatusResponse](t, rec))
	})

	t.Run("missing csrf token", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/kitchen/api/orders/7/status/", `{"status": "done"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		f.updater.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("mismatched csrf token", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/kitchen/api/orders/7/status/", `{"status": "done"}`, func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: httpin.CSRFCookie, Value: token})
			req.Header.Set(httpin.CSRFHeader, "something-else")
		})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/kitchen/api/orders/7/status/", `{}`, withCSRF(token))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing status", decode[httpin.ErrorResponse](t, rec).Message)
	})

	t.Run("invalid json", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/kitchen/api/orders/7/status/", `{"status":`, withCSRF(token))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newFixture(t)
		rec := f.do(http.MethodPost, "/kitchen/api/orders/seven/status/", `{"status": "done"}`, withCSRF(token))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)
		f.updater.On("Handle", mock.Anything, mock.Anything).
			Return(order.Unknown, errs.NewObjectNotFoundError("order", 99)).Once()

		rec := f.do(http.MethodPost, "/kitchen/api/orders/99/status/", `{"status": "done"}`, withCSRF(token))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func openSession(t *testing.T, f *fixture) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/cashier/api/sessions/", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[httpin.SessionResponse](t, rec).ID
}

func TestCashierSession_ComposeAndSubmit(t *testing.T) {
	f := newFixture(t)
	id := openSession(t, f)
	base := "/cashier/api/sessions/" + id

	rec := f.do(http.MethodPost, base+"/category/", `{"category": "Bowl"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPost, base+"/sides/", `{"recipe_id": 15}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPost, base+"/entrees/", `{"recipe_id": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPost, base+"/commit/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	state := decode[httpin.SessionResponse](t, rec).State
	require.Len(t, state.Lines, 1)
	assert.Equal(t, "10.61", state.Totals.Total.String())

	f.submitter.On("CreateOrder", mock.Anything, mock.MatchedBy(func(s order.Submission) bool {
		return s.TotalPrice.String() == "10.61" && len(s.Items) == 1
	})).Return(77, nil).Once()

	rec = f.do(http.MethodPost, base+"/submit/", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 77, decode[order.Receipt](t, rec).OrderID)

	rec = f.do(http.MethodGet, base+"/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[httpin.SessionResponse](t, rec).State.Lines)
}

func TestCashierSession_WarningIsConflict(t *testing.T) {
	f := newFixture(t)
	base := "/cashier/api/sessions/" + openSession(t, f)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/category/", `{"category": "bowl"}`).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/entrees/", `{"recipe_id": 2}`).Code)

	rec := f.do(http.MethodPost, base+"/entrees/", `{"recipe_id": 3}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[httpin.WarningResponse](t, rec)
	assert.NotEmpty(t, body.Warning)
	assert.Len(t, body.State.Selection.Entrees, 1, "state unchanged")
}

func TestCashierSession_EditAndRemoveLines(t *testing.T) {
	f := newFixture(t)
	base := "/cashier/api/sessions/" + openSession(t, f)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/category/", `{"category": "drink"}`).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/singleton/", `{"recipe_id": 24, "size": "S"}`).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/commit/", "").Code)

	rec := f.do(http.MethodPost, base+"/lines/1/edit/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[httpin.SessionResponse](t, rec).State
	require.NotNil(t, state.Editing)
	assert.Equal(t, order.LineID(1), *state.Editing)

	rec = f.do(http.MethodPost, base+"/size/", `{"size": "L"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state = decode[httpin.SessionResponse](t, rec).State
	assert.Equal(t, "2.60", state.Lines[0].Price.String())

	rec = f.do(http.MethodDelete, base+"/lines/1/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[httpin.SessionResponse](t, rec).State.Lines)

	rec = f.do(http.MethodDelete, base+"/lines/1/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCashierSession_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/cashier/api/sessions/not-a-uuid/", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/cashier/api/sessions/"+kernel.NewUUID().String()+"/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	base := "/cashier/api/sessions/" + openSession(t, f)
	rec = f.do(http.MethodPost, base+"/category/", `{"category": "soup"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, base+"/submit/", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty draft")

	rec = f.do(http.MethodDelete, base+"/", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(http.MethodGet, base+"/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCashierSession_SubmitFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	base := "/cashier/api/sessions/" + openSession(t, f)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/category/", `{"category": "drink"}`).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/singleton/", `{"recipe_id": 32}`).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/commit/", "").Code)

	f.submitter.On("CreateOrder", mock.Anything, mock.Anything).Return(0, errors.New("service unavailable")).Once()

	rec := f.do(http.MethodPost, base+"/submit/", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = f.do(http.MethodGet, base+"/", "")
	assert.Len(t, decode[httpin.SessionResponse](t, rec).State.Lines, 1)
}
