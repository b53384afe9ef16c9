// Package client is the Go client for the farm API: a Gateway that signs
// outgoing requests with the stored bearer token, and a typed FarmClient on
// top of it used by farmctl and the ingest sensor source.
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
	"time"

	"github.com/smartfarm/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "smartfarm-client/1.0"
)

// Config configures a Gateway
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Gateway sends JSON requests to the farm API. It attaches the token held
// by its TokenStore and clears the store whenever the server answers 401.
// Requests are never retried.
type Gateway struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	tokens     TokenStore
	logger     *zap.Logger
}

// Request describes one API call. Path is relative to the base URL.
type Request struct {
	Method  string
	Path    string
	Query   map[string]string
	Headers map[string]string
	Body    any
}

// Response is a completed 2xx exchange
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// NewGateway creates a gateway. A nil store means requests are sent
// without credentials.
func NewGateway(cfg Config, tokens TokenStore) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore("")
	}

	return &Gateway{
		httpClient: httpClient,
		baseURL:    base,
		userAgent:  userAgent,
		tokens:     tokens,
		logger:     logger,
	}, nil
}

// Tokens returns the gateway's token store
func (g *Gateway) Tokens() TokenStore {
	return g.tokens
}

// Do executes req once. Transport failures are returned as is; non-2xx
// responses are returned as *APIError.
func (g *Gateway) Do(ctx context.Context, req Request) (resp *Response, err error) {
	u, err := g.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	ctx, span := telemetry.StartClientSpan(ctx, "farm.api "+req.Method,
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", u.Path),
	)
	defer telemetry.End(span, &err)

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", g.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	token, err := g.tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	start := time.Now()
	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))

	if httpResp.StatusCode == http.StatusUnauthorized {
		if clearErr := g.tokens.Clear(ctx); clearErr != nil {
			g.logger.Warn("failed to clear token after 401", zap.Error(clearErr))
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, newAPIError(httpResp.StatusCode, raw)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       raw,
		Duration:   time.Since(start),
	}, nil
}

// DoJSON executes req and decodes the envelope's data into out, which may
// be nil.
func (g *Gateway) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := g.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

// Get performs a GET request.
func (g *Gateway) Get(ctx context.Context, path string, query map[string]string, out any) error {
	return g.DoJSON(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post performs a POST request.
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.DoJSON(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put performs a PUT request.
func (g *Gateway) Put(ctx context.Context, path string, body, out any) error {
	return g.DoJSON(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete performs a DELETE request.
func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.DoJSON(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

func (g *Gateway) buildURL(path string, query map[string]string) (*url.URL, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := g.baseURL.Parse(strings.TrimSuffix(g.baseURL.Path, "/") + path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			if v != "" {
				q.Set(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}
