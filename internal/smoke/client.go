package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/okian/usersapi/pkg/logger"
)

// Client issues JSON requests against the API and counts them.
type Client struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
	verbose bool

	requests atomic.Int64
	failed   atomic.Int64
}

type messageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type usersResponse struct {
	Users []User `json:"users"`
}

func newClient(cfg *Config, l logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  l,
		verbose: cfg.Verbose,
	}
}

// do sends body as JSON (when non-nil), checks the status and decodes the
// response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	c.requests.Add(1)
	resp, err := c.client.Do(req)
	if err != nil {
		c.failed.Add(1)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.failed.Add(1)
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if c.verbose {
		c.logger.Debug(ctx, "request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.Duration("duration", time.Since(start)))
	}

	if resp.StatusCode != want {
		c.failed.Add(1)
		return fmt.Errorf("%w: %s %s: status %d, want %d: %s", ErrUnexpected, method, path, resp.StatusCode, want, bytes.TrimSpace(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			c.failed.Add(1)
			return fmt.Errorf("%w: %s %s: decode: %w", ErrUnexpected, method, path, err)
		}
	}
	return nil
}

func (c *Client) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

func (c *Client) reset(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/restart", nil, http.StatusOK, nil)
}

func (c *Client) list(ctx context.Context) ([]User, error) {
	var out usersResponse
	if err := c.do(ctx, http.MethodGet, "/users", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) get(ctx context.Context, id string) (User, error) {
	var out usersResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, http.StatusOK, &out); err != nil {
		return User{}, err
	}
	if len(out.Users) != 1 {
		return User{}, fmt.Errorf("%w: get %s returned %d users", ErrUnexpected, id, len(out.Users))
	}
	return out.Users[0], nil
}

func (c *Client) create(ctx context.Context, name string, age float64) (string, error) {
	var out messageResponse
	body := map[string]any{"name": name, "age": age}
	if err := c.do(ctx, http.MethodPost, "/users", body, http.StatusCreated, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: create %s returned no id", ErrUnexpected, name)
	}
	return out.ID, nil
}

func (c *Client) updateAge(ctx context.Context, id string, age float64) error {
	return c.do(ctx, http.MethodPatch, "/users/"+id, map[string]any{"age": age}, http.StatusOK, nil)
}

func (c *Client) remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id, nil, http.StatusOK, nil)
}
