package cosmos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"cosmos-mcp/pkg/logging"
)

const (
	// DefaultHTTPTimeout is the default timeout for API requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultScope is the COSMOS scope sent when a call does not name one.
	DefaultScope = "DEFAULT"

	// APIPath is the JSON-RPC endpoint path of the COSMOS API.
	APIPath = "/openc3-api/api"

	contentType = "application/json-rpc"
)

// Caller invokes a COSMOS API method.
type Caller interface {
	Call(ctx context.Context, method string, args []any, kwargs map[string]any) (any, error)
}

// Endpoint builds the API URL from its parts.
func Endpoint(schema, host string, port int) string {
	return fmt.Sprintf("%s://%s:%d%s", schema, host, port, APIPath)
}

// Client is a JSON-RPC 2.0 client for the COSMOS API.
type Client struct {
	endpoint   string
	scope      string
	auth       TokenProvider
	httpClient *http.Client

	nextID atomic.Int64
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithScope sets the default scope.
func WithScope(scope string) ClientOption {
	return func(c *Client) {
		if scope != "" {
			c.scope = scope
		}
	}
}

// NewClient creates a client for the API at endpoint.
func NewClient(endpoint string, auth TokenProvider, opts ...ClientOption) *Client {
	if auth == nil {
		auth = PasswordAuth{}
	}
	c := &Client{
		endpoint:   endpoint,
		scope:      DefaultScope,
		auth:       auth,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the API URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Scope returns the default scope.
func (c *Client) Scope() string {
	return c.scope
}

type rpcRequest struct {
	JSONRPC       string         `json:"jsonrpc"`
	Method        string         `json:"method"`
	Params        []any          `json:"params"`
	KeywordParams map[string]any `json:"keyword_params"`
	ID            int64          `json:"id"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Class string `json:"class"`
	} `json:"data"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcErrorBody   `json:"error"`
	ID      int64           `json:"id"`
}

// Call invokes method with positional args and keyword kwargs. The scope
// keyword is filled in when absent. A 401 answer drops a cached token and
// retries once.
func (c *Client) Call(ctx context.Context, method string, args []any, kwargs map[string]any) (any, error) {
	result, err := c.call(ctx, method, args, kwargs)
	if httpErr, ok := err.(*HTTPError); ok && httpErr.StatusCode == http.StatusUnauthorized {
		if inv, ok := c.auth.(Invalidator); ok {
			logging.Debug("Cosmos", "API rejected token for %s, retrying with a fresh one", method)
			inv.Invalidate()
			return c.call(ctx, method, args, kwargs)
		}
	}
	return result, err
}

func (c *Client) call(ctx context.Context, method string, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	kw := make(map[string]any, len(kwargs)+1)
	for k, v := range kwargs {
		kw[k] = v
	}
	if _, ok := kw["scope"]; !ok {
		kw["scope"] = c.scope
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC:       "2.0",
		Method:        method,
		Params:        args,
		KeywordParams: kw,
		ID:            c.nextID.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain API token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}
	logging.Debug("Cosmos", "%s -> HTTP %d in %s", method, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	// the API reports RPC errors with 4xx/5xx statuses too, so try the body first
	var rpcResp rpcResponse
	decodeErr := json.Unmarshal(raw, &rpcResp)
	if decodeErr == nil && rpcResp.Error != nil {
		return nil, &RPCError{
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
			Class:   rpcResp.Error.Data.Class,
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("invalid %s response: %w", method, decodeErr)
	}

	if len(rpcResp.Result) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return nil, fmt.Errorf("invalid %s result: %w", method, err)
	}
	return result, nil
}
