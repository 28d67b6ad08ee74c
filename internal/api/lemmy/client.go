// Package lemmy implements api.Backend against the Lemmy v3 REST API.
package lemmy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/glabrego/lemmy-cli/internal/api"
)

const apiPrefix = "/api/v3"

var _ api.Backend = (*Client)(nil)

// Options tune a Client. The zero value is usable.
type Options struct {
	Token      string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *slog.Logger
}

type Client struct {
	rest    *resty.Client
	token   string
	limiter *rate.Limiter
	logger  *slog.Logger

	mu       sync.RWMutex
	protocol api.Protocol
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func New(baseURL string, opts Options) *Client {
	var rest *resty.Client
	if opts.HTTPClient != nil {
		rest = resty.NewWithClient(opts.HTTPClient)
	} else {
		rest = resty.New()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	rest.SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		rest.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Token != "" {
		rest.SetAuthToken(opts.Token)
	}

	c := &Client{
		rest:     rest,
		token:    opts.Token,
		limiter:  opts.Limiter,
		logger:   opts.Logger,
		protocol: api.ProtocolV019,
	}
	rest.AddRequestMiddleware(c.throttle)
	rest.AddRequestMiddleware(c.legacyAuth)
	rest.AddResponseMiddleware(c.logResponse)
	return c
}

func (c *Client) Close() error {
	return c.rest.Close()
}

func (c *Client) SetProtocol(p api.Protocol) {
	c.mu.Lock()
	c.protocol = p
	c.mu.Unlock()
}

func (c *Client) Protocol() api.Protocol {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.protocol
}

func (c *Client) throttle(_ *resty.Client, req *resty.Request) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// legacyAuth copies the token into the request for servers older than 0.19,
// which ignore the Authorization header.
func (c *Client) legacyAuth(_ *resty.Client, req *resty.Request) error {
	if c.token == "" || c.Protocol() != api.ProtocolV018 {
		return nil
	}
	if req.Method == http.MethodGet {
		req.SetQueryParam("auth", c.token)
		return nil
	}
	if req.Body == nil {
		req.SetBody(map[string]any{"auth": c.token})
		return nil
	}
	raw, err := json.Marshal(req.Body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	fields["auth"] = c.token
	req.SetBody(fields)
	return nil
}

func (c *Client) logResponse(_ *resty.Client, res *resty.Response) error {
	c.logger.Debug("lemmy response",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"duration", res.Duration(),
	)
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, result any) error {
	req := c.rest.R().WithContext(ctx).SetError(&errorBody{})
	if result != nil {
		req.SetResult(result)
	}
	if len(q) > 0 {
		req.SetQueryParamsFromValues(q)
	}
	res, err := req.Get(apiPrefix + path)
	return check(op, res, err)
}

func (c *Client) send(ctx context.Context, method, op, path string, body, result any) error {
	req := c.rest.R().WithContext(ctx).SetError(&errorBody{}).SetBody(body)
	if result != nil {
		req.SetResult(result)
	}
	var (
		res *resty.Response
		err error
	)
	switch method {
	case http.MethodPut:
		res, err = req.Put(apiPrefix + path)
	default:
		res, err = req.Post(apiPrefix + path)
	}
	return check(op, res, err)
}

func check(op string, res *resty.Response, err error) error {
	if res != nil && res.IsError() {
		apiErr := &api.APIError{StatusCode: res.StatusCode()}
		if body, ok := res.Error().(*errorBody); ok && body != nil {
			apiErr.Code = body.Error
		}
		return fmt.Errorf("%s failed: %w", op, apiErr)
	}
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	return nil
}
