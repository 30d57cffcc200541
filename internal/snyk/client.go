package snyk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/secops-tools/snyk-ignore/internal/config"
)

// maxErrorBody bounds how much of a failed response is kept for reporting
const maxErrorBody = 4 << 10

// Options configures a Client
type Options struct {
	BaseURL           string
	Token             string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxAttempts       int
	DefaultDelay      time.Duration
	MaxDelay          time.Duration

	// Transport overrides http.DefaultTransport (tests).
	Transport http.RoundTripper
	// HTTPLog receives verbose request/response logs when set.
	HTTPLog io.Writer
	Logger  *zap.Logger
	// Sleep waits out a rate-limit delay. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// OptionsFromConfig maps the loaded configuration onto client options
func OptionsFromConfig(cfg *config.Config, token string) Options {
	return Options{
		BaseURL:           cfg.Snyk.APIURL,
		Token:             token,
		Timeout:           cfg.Snyk.Timeout(),
		RequestsPerSecond: cfg.RateLimits.SnykRPS,
		MaxAttempts:       cfg.Retry.MaxAttempts,
		DefaultDelay:      cfg.Retry.DefaultDelay(),
		MaxDelay:          cfg.Retry.MaxDelay(),
	}
}

// Client wraps Snyk v1 API operations
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	retry   retryPolicy
	sleep   func(ctx context.Context, d time.Duration) error
	logger  *zap.Logger
}

// NewClient creates a new Snyk API client
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", opts.BaseURL)
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("API token is required")
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "snyk-ignore"
	}

	// Host, AuthToken and Transport are all set so go-gh never falls back to gh's own config.
	httpClient, err := api.NewHTTPClient(api.ClientOptions{
		Host:               base.Hostname(),
		AuthToken:          opts.Token,
		Transport:          transport,
		Timeout:            opts.Timeout,
		SkipDefaultHeaders: true,
		LogIgnoreEnv:       true,
		Log:                opts.HTTPLog,
		LogVerboseHTTP:     opts.HTTPLog != nil,
		Headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": userAgent,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(base.String(), "/"),
		token:   opts.Token,
		limiter: limiter,
		retry: retryPolicy{
			maxAttempts:  maxAttempts,
			defaultDelay: opts.DefaultDelay,
			maxDelay:     opts.MaxDelay,
		},
		sleep:  sleep,
		logger: logger,
	}, nil
}

// Close releases resources
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do sends a JSON request and decodes a 2xx body into out.
// Rate-limited attempts are retried up to the policy's attempt cap.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return &SubmitError{Kind: TransportError, Err: err}
		}

		resp, err := c.send(ctx, method, endpoint, payload)
		if err != nil {
			return &SubmitError{Kind: TransportError, Err: err}
		}

		switch {
		case resp.status >= 200 && resp.status < 300:
			if out == nil || len(resp.body) == 0 {
				return nil
			}
			if err := json.Unmarshal(resp.body, out); err != nil {
				return &SubmitError{Kind: APIError, StatusCode: resp.status, Body: truncate(resp.body), Err: err}
			}
			return nil

		case resp.status == http.StatusTooManyRequests:
			if attempt >= c.retry.maxAttempts {
				return &SubmitError{
					Kind:       RateLimitExceeded,
					StatusCode: resp.status,
					Body:       truncate(resp.body),
					Attempts:   attempt,
				}
			}
			delay := c.retry.delay(attempt, resp.header.Get("Retry-After"), time.Now())
			c.logger.Warn("rate limited, backing off",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			if err := c.sleep(ctx, delay); err != nil {
				return &SubmitError{Kind: TransportError, Err: err}
			}

		default:
			return &SubmitError{Kind: APIError, StatusCode: resp.status, Body: truncate(resp.body)}
		}
	}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
