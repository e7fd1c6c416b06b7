// Package orderservice places composed orders with the order service, either over
// HTTP or by calling the create-order handler in process.
package orderservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pos/internal/core/application/usecases/commands"
	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"
)

const createOrderPath = "/api/orders/create-order/"

var ErrOrderRejected = errors.New("order service rejected the order")

var (
	_ ports.OrderGateway = (*Client)(nil)
	_ ports.OrderGateway = (*Local)(nil)
)

type createOrderResponse struct {
	Success bool   `json:"success"`
	OrderID int    `json:"order_id"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client posts submissions to a remote order service. One call is one request;
// nothing is retried.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL. A nil httpClient uses a
// client with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// CreateOrder places submission and returns the id assigned by the service.
func (c *Client) CreateOrder(ctx context.Context, submission order.Submission) (int, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return 0, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createOrderPath, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post order: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	var out createOrderResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("order service answered %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		return 0, fmt.Errorf("%w (%d): %s", ErrOrderRejected, resp.StatusCode, out.Error)
	}
	if out.OrderID <= 0 {
		return 0, fmt.Errorf("%w: response carries no order id", ErrOrderRejected)
	}
	return out.OrderID, nil
}

// CreateOrderHandler is the in-process order placement use case.
type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (int, error)
}

// Local places submissions through the create-order handler of this process.
type Local struct {
	handler CreateOrderHandler
}

func NewLocal(handler CreateOrderHandler) *Local {
	return &Local{handler: handler}
}

// CreateOrder builds the command from submission and handles it.
func (l *Local) CreateOrder(ctx context.Context, submission order.Submission) (int, error) {
	cmd, err := commands.CreateOrderCommandFromSubmission(submission)
	if err != nil {
		return 0, err
	}
	return l.handler.Handle(ctx, cmd)
}
