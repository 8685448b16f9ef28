// Package httpstore is a task store backed by the todo REST API: GET and
// POST /tasks, PUT and DELETE /tasks/{id}, bearer-token auth.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskbot/internal/model"
)

const (
	maxErrorBody = 64 << 10
	// pageSize is the API's maximum limit for GET /tasks.
	pageSize = 100
)

type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, whose timeout is the only
// deadline applied to store calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func New(baseURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("httpstore: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("httpstore: base url must be http or https, got %q", baseURL)
	}
	c := &Client{baseURL: u, token: token, http: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTasks pages through GET /tasks until a short page, keeping server
// order.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	all := make([]wireTask, 0)
	for skip := 0; ; skip += pageSize {
		q := url.Values{}
		q.Set("skip", strconv.Itoa(skip))
		q.Set("limit", strconv.Itoa(pageSize))
		var page []wireTask
		if err := c.do(ctx, http.MethodGet, "/tasks?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}
	return toModels(all), nil
}

func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var out wireTask
	err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &out)
	if err != nil {
		return model.Task{}, err
	}
	return out.toModel(), nil
}

func (c *Client) CreateTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	var out wireTask
	err := c.do(ctx, http.MethodPost, "/tasks", in, &out)
	if err != nil {
		return model.Task{}, err
	}
	return out.toModel(), nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	var out wireTask
	err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), patch, &out)
	if err != nil {
		return model.Task{}, err
	}
	return out.toModel(), nil
}

// ToggleTask flips a task between pending and completed.
func (c *Client) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	var out wireTask
	err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id)+"/toggle", nil, &out)
	if err != nil {
		return model.Task{}, err
	}
	return out.toModel(), nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpstore: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("httpstore: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &model.StoreError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.StoreError{Status: resp.StatusCode, Message: errorDetail(resp)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &model.StoreError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// errorDetail pulls the "detail" field out of an API error body, falling
// back to the status text.
func errorDetail(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return http.StatusText(resp.StatusCode)
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		return detail
	}
	// Validation errors carry a list of objects rather than a string.
	return string(payload.Detail)
}

// IsUnauthorized reports whether err is an auth failure from the API.
func IsUnauthorized(err error) bool {
	var se *model.StoreError
	return errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden)
}
