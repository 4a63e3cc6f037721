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
	"sync"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/common"
)

// HTTPClient talks to the REST flavour of the auth backend:
//
//	POST {base}/im_login   body: request map   → {"code":0,"msg":"","data":{user}}
//	GET  {base}/ping                           → {"code":0,"msg":"OK"}
//	GET  {base}/contacts                       → {"code":0,"data":[{contact}...]}
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.RWMutex
	sessionToken string
}

// cloudResponse is the backend envelope; Code 0 means success.
type cloudResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Login(ctx context.Context, request map[string]string) (*models.AuthResult, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	env, err := c.do(ctx, http.MethodPost, "/im_login", body)
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal(env.Data, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if u.ID == "" || u.MessagingToken == "" || u.SessionToken == "" {
		return nil, fmt.Errorf("%w: user record is missing id or tokens", ErrBadResponse)
	}

	c.mu.Lock()
	c.sessionToken = u.SessionToken
	c.mu.Unlock()

	return models.NewAuthResult(u), nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/ping", nil)
	return err
}

func (c *HTTPClient) ListContacts(ctx context.Context) ([]models.Contact, error) {
	env, err := c.do(ctx, http.MethodGet, "/contacts", nil)
	if err != nil {
		return nil, err
	}

	var list []models.Contact
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
	}
	return list, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) (*cloudResponse, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.sessionToken != "" && path != "/im_login" {
		req.Header.Set(common.SessionTokenHeaderName, c.sessionToken)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env cloudResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= 300 || (decodeErr == nil && env.Code != 0) {
		return nil, &ResponseError{Status: resp.StatusCode, Code: env.Code, Msg: env.Msg, kind: statusKind(resp.StatusCode)}
	}
	if decodeErr != nil {
		if errors.Is(decodeErr, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", ErrBadResponse)
		}
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, decodeErr)
	}
	return &env, nil
}

func statusKind(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}
