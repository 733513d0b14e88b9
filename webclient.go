package aleph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// retryStatus lists the server-error codes a request is retried on.
var retryStatus = map[int]bool{
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// webClient is the shared HTTP layer beneath the OAI and X-Server clients.
// It retries server errors a bounded number of times with exponential
// backoff and a fixed per-request timeout; the protocol layers above it
// never retry.
type webClient struct {
	baseURL string
	hc      *http.Client
	retries int
	backoff time.Duration
	logger  *log.Logger
}

func newWebClient(cfg WebConfig, logger *log.Logger) *webClient {
	return &webClient{
		baseURL: strings.TrimRight(cfg.Host, "/") + "/" + cfg.Endpoint,
		hc: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		retries: cfg.TotalRetry,
		backoff: time.Duration(cfg.RetryBackoff) * time.Second,
		logger:  logger,
	}
}

// get issues one GET with the given query parameters and returns the
// response body. Server-error responses and network failures are retried up
// to the configured count; any other non-200 status fails immediately.
func (c *webClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * (1 << (attempt - 1))
			c.logger.Debug("retrying request", "url", c.baseURL, "attempt", attempt, "wait", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retriable, err := c.getOnce(ctx, params)
		if err == nil {
			return body, nil
		}
		if !retriable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", c.retries, lastErr)
}

func (c *webClient) getOnce(ctx context.Context, params url.Values) (body []byte, retriable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if retryStatus[resp.StatusCode] {
		return nil, true, fmt.Errorf("server error: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return b, false, nil
}
