// Package client talks to the pizzeria REST API. It is the backend of a
// storefront running away from the database.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"pizzeria-service/models"
	"pizzeria-service/orders"
	"pizzeria-service/repository"
)

var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API mounted at baseURL, e.g.
// "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %w", method, path, &StatusError{Code: resp.StatusCode, Message: apiErr.Error})
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Login exchanges the operator PIN for a token used on later calls.
func (c *Client) Login(ctx context.Context, pin string) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/login", map[string]string{"pin": pin}, &resp); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) ListZones(ctx context.Context) ([]models.DeliveryZone, error) {
	var out []models.DeliveryZone
	if err := c.do(ctx, http.MethodGet, "/zones", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) ListExtras(ctx context.Context) ([]models.Extra, error) {
	var out []models.Extra
	if err := c.do(ctx, http.MethodGet, "/extras", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

// ListOrders returns at most limit of the newest orders the server sends.
func (c *Client) ListOrders(ctx context.Context, limit int) ([]models.SaleRecord, error) {
	var out []models.SaleRecord
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) error {
	return c.do(ctx, http.MethodPost, "/products", p, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch repository.ProductPatch) error {
	return c.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), patch, nil)
}

func (c *Client) CreateCategory(ctx context.Context, cat models.Category) error {
	return c.do(ctx, http.MethodPost, "/categories", cat, nil)
}

func (c *Client) CreateZone(ctx context.Context, z models.DeliveryZone) error {
	return c.do(ctx, http.MethodPost, "/zones", z, nil)
}

func (c *Client) SaveOrder(ctx context.Context, sale models.SaleRecord) error {
	return c.do(ctx, http.MethodPost, "/orders", sale, nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id), map[string]models.OrderStatus{"status": status}, nil)
}

func (c *Client) OrderStats(ctx context.Context) (orders.Stats, error) {
	var out orders.Stats
	if err := c.do(ctx, http.MethodGet, "/orders/stats", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

// GetUser returns nil and no error when the phone has no profile.
func (c *Client) GetUser(ctx context.Context, phone string) (*models.User, error) {
	var out *models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(phone), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveUser(ctx context.Context, u models.User) error {
	return c.do(ctx, http.MethodPost, "/users", u, nil)
}

func (c *Client) ListSettings(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if err := c.do(ctx, http.MethodGet, "/settings", nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) SaveSetting(ctx context.Context, key, value string) error {
	return c.do(ctx, http.MethodPost, "/settings", models.Setting{Key: key, Value: value}, nil)
}
