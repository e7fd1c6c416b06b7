// Package kitchenapi talks to the kitchen endpoints of the order service on behalf
// of a kitchen display: the bootstrap snapshot and CSRF-guarded status updates.
package kitchenapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pos/internal/core/domain/model/order"
	"pos/internal/core/ports"
)

const (
	ordersPath = "/kitchen/api/orders/"
	csrfCookie = "csrftoken"
	csrfHeader = "X-CSRFToken"

	maxBody = 4 << 20
)

var ErrUnexpectedStatus = errors.New("kitchen api returned an unexpected status")

var (
	_ ports.SnapshotFetcher = (*Client)(nil)
	_ ports.StatusUpdater   = (*Client)(nil)
)

// Client keeps the session cookies of one display. The CSRF token set by the
// snapshot endpoint is echoed back on every status update.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse kitchen base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

// FetchSnapshot downloads the recent orders array.
func (c *Client) FetchSnapshot(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(ordersPath), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: snapshot %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return body, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	ID      int    `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UpdateStatus posts status for orderID and returns the status the service
// stored. A display that has no CSRF token yet fetches a snapshot first.
func (c *Client) UpdateStatus(ctx context.Context, orderID int, status order.Status) (order.Status, error) {
	token := c.csrfToken()
	if token == "" {
		if _, err := c.FetchSnapshot(ctx); err != nil {
			return order.Unknown, fmt.Errorf("obtain csrf token: %w", err)
		}
		token = c.csrfToken()
	}

	body, err := json.Marshal(statusRequest{Status: status.String()})
	if err != nil {
		return order.Unknown, err
	}
	path := ordersPath + strconv.Itoa(orderID) + "/status/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(body))
	if err != nil {
		return order.Unknown, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(csrfHeader, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return order.Unknown, fmt.Errorf("post status: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return order.Unknown, fmt.Errorf("%w: status update of order %d answered %d", ErrUnexpectedStatus, orderID, resp.StatusCode)
	}

	var out statusResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return order.Unknown, fmt.Errorf("decode status response: %w", err)
	}
	if !out.Success {
		return order.Unknown, fmt.Errorf("%w: %s", ErrUnexpectedStatus, out.Message)
	}
	if out.Status == "" {
		return status, nil
	}
	return order.NormalizeStatus(out.Status), nil
}

func (c *Client) url(path string) string {
	return c.base.String() + path
}

func (c *Client) csrfToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == csrfCookie {
			return cookie.Value
		}
	}
	return ""
}
