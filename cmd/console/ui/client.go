package ui

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

	"blog-cms/backend/app/models"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client talks to the CMS backend and keeps the caller's token.
type Client struct {
	BaseURL string
	Token   string
	Role    string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) Login(ctx context.Context, baseURL, email, password string) error {
	c.BaseURL = strings.TrimRight(baseURL, "/")
	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return err
	}
	c.Token = out.Token
	c.Role = out.Role
	return nil
}

// Posts lists post views. An empty collection is not an error here.
func (c *Client) Posts(ctx context.Context, publishedOnly bool) ([]models.PostView, error) {
	path := "/api/posts"
	if publishedOnly {
		path = "/api/posts/published"
	}
	var views []models.PostView
	err := c.do(ctx, http.MethodGet, path, nil, &views)
	if isNotFound(err) {
		return nil, nil
	}
	return views, err
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		if msg.Message == "" {
			msg.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
