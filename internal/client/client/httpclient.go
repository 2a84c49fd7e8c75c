package client

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

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/sethvargo/go-retry"
)

const (
	maxErrorBody    = 4 << 10
	getMaxRetries   = 2
	getRetryBackoff = 100 * time.Millisecond
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	backoff func() retry.Backoff
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(getMaxRetries, retry.NewExponential(getRetryBackoff))
		},
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Register(ctx context.Context, username, password, email string) (*User, error) {
	req := map[string]string{"username": username, "password": password, "email": email}

	var u User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*Session, error) {
	req := map[string]string{"username": username, "password": password}

	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Profile(ctx context.Context, token string) (string, error) {
	var p struct {
		Username string `json:"username"`
	}
	if err := c.get(ctx, "/api/user/profile", token, &p); err != nil {
		return "", err
	}
	return p.Username, nil
}

func (c *HTTPClient) Protected(ctx context.Context, token string) (string, error) {
	var text string
	if err := c.get(ctx, "/api/user/protected", token, &text); err != nil {
		return "", err
	}
	return text, nil
}

// get retries while the server is unreachable. POSTs are never retried.
func (c *HTTPClient) get(ctx context.Context, path, token string, out any) error {
	return retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, token, nil, out)
		if errors.Is(err, ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// do sends one request. out may be a *string for plain-text responses.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if s, ok := out.(*string); ok {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("error reading response: %w", err)
		}
		*s = string(b)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		sentinel = ErrConflict
	case resp.StatusCode == http.StatusBadRequest:
		sentinel = ErrBadRequest
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		sentinel = ErrUnavailable
	default:
		sentinel = ErrServer
	}

	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		return fmt.Errorf("%w: %s", sentinel, eb.Error)
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}
