// Package prediction holds both sides of POST /predict: the client the
// server uses to reach a remote model, and the model that answers it.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"floodwatch/internal/risk"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultTimeout    = 5 * time.Second
	defaultRetryDelay = 250 * time.Millisecond
	maxResponseBytes  = 64 << 10
)

// Client calls a remote prediction endpoint. Every attempt is bounded by the
// timeout; a NetworkError is retried once.
type Client struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	retryDelay time.Duration
	policy     risk.Policy
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryDelay sets the pause before the single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithPolicy sets the input policy applied before sending. Defaults to
// clamp.
func WithPolicy(p risk.Policy) Option {
	return func(c *Client) { c.policy = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(url string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		url:        url,
		httpClient: http.DefaultClient,
		timeout:    timeout,
		retryDelay: defaultRetryDelay,
		policy:     risk.PolicyClamp,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Assess normalises in with the same required fields as the local scorer,
// fills absent fields with their defaults (the model needs a complete
// reading) and asks the remote model.
func (c *Client) Assess(ctx context.Context, in risk.Input) (risk.Assessment, error) {
	r, err := c.policy.Apply(in, risk.ScoredFields())
	if err != nil {
		return risk.Assessment{}, err
	}
	r = r.WithDefaults()

	resp, err := c.Predict(ctx, r)
	if err != nil {
		return risk.Assessment{}, err
	}
	return resp.Assessment(r), nil
}

// Predict posts r and returns the decoded successful response.
func (c *Client) Predict(ctx context.Context, r risk.Reading) (Response, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return Response{}, fmt.Errorf("encode reading: %w", err)
	}

	attempt := 0
	op := func() (Response, error) {
		attempt++
		resp, err := c.post(ctx, body)
		if err == nil {
			return resp, nil
		}
		var ne *NetworkError
		if errors.As(err, &ne) && ctx.Err() == nil {
			c.logger.Warn("prediction attempt failed", "attempt", attempt, "error", err)
			return Response{}, err
		}
		return Response{}, backoff.Permanent(err)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), 1),
		ctx,
	)
	return backoff.RetryWithData(op, b)
}

func (c *Client) post(ctx context.Context, body []byte) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &NetworkError{Op: "request", Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return Response{}, &NetworkError{Op: "read response", StatusCode: res.StatusCode, Err: err}
	}

	var out Response
	decodeErr := json.Unmarshal(raw, &out)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if decodeErr == nil && !out.Success && out.Error != "" {
			return Response{}, &ServerError{StatusCode: res.StatusCode, Message: out.Error}
		}
		return Response{}, &NetworkError{
			Op:         "response",
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", res.StatusCode),
		}
	}

	if decodeErr != nil {
		return Response{}, &ServerError{StatusCode: res.StatusCode, Message: "invalid response body: " + decodeErr.Error()}
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "prediction failed"
		}
		return Response{}, &ServerError{StatusCode: res.StatusCode, Message: msg}
	}
	return out, nil
}
