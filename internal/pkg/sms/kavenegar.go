package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	defaultKavenegarURL = "https://api.kavenegar.com"
	defaultTimeout      = 5 * time.Second
	defaultRetryBase    = 200 * time.Millisecond
	maxRetryDelay       = 2 * time.Second
	maxErrorBody        = 4 * 1024
)

// GatewayError is a rejection reported by the gateway itself.
type GatewayError struct {
	// HTTPStatus is the response status code.
	HTTPStatus int
	// Status is the gateway's own status code from the response body.
	Status int
	// Message is the gateway's description.
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("sms: gateway rejected request: http %d, status %d: %s", e.HTTPStatus, e.Status, e.Message)
}

// Temporary reports whether retrying may succeed.
func (e *GatewayError) Temporary() bool {
	return e.HTTPStatus >= http.StatusInternalServerError || e.HTTPStatus == http.StatusTooManyRequests
}

// KavenegarConfig configures the Kavenegar implementation.
type KavenegarConfig struct {
	// BaseURL defaults to https://api.kavenegar.com.
	BaseURL string
	// APIKey is the account key; it is part of the request path.
	APIKey string
	// Timeout bounds one HTTP attempt. Defaults to 5s.
	Timeout time.Duration
	// RetryMax is the number of retries after the first attempt.
	RetryMax uint64
	// RetryBase is the first backoff step. Defaults to 200ms.
	RetryBase time.Duration
	// HTTPClient overrides the client, mostly for tests.
	HTTPClient *http.Client
}

// Kavenegar sends verify-lookup messages through the Kavenegar REST API.
type Kavenegar struct {
	endpoint  string
	client    *http.Client
	retryMax  uint64
	retryBase time.Duration
}

// NewKavenegar constructs a Kavenegar sender.
func NewKavenegar(cfg KavenegarConfig) (*Kavenegar, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultKavenegarURL
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = defaultRetryBase
	}

	return &Kavenegar{
		endpoint:  base + "/v1/" + url.PathEscape(cfg.APIKey) + "/verify/lookup.json",
		client:    client,
		retryMax:  cfg.RetryMax,
		retryBase: retryBase,
	}, nil
}

// Send posts the lookup, retrying transport failures and 5xx/429 answers.
func (k *Kavenegar) Send(ctx context.Context, msg Lookup) error {
	if err := msg.validate(); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("receptor", msg.Receptor)
	form.Set("token", msg.Token)
	form.Set("template", msg.Template)
	body := form.Encode()

	b := retry.NewFibonacci(k.retryBase)
	b = retry.WithCappedDuration(maxRetryDelay, b)
	b = retry.WithMaxRetries(k.retryMax, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := k.post(ctx, body)

		var gerr *GatewayError
		if errors.As(err, &gerr) && !gerr.Temporary() {
			return err
		}
		if err != nil {
			return retry.RetryableError(err)
		}

		return nil
	})
}

func (k *Kavenegar) post(ctx context.Context, body string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.endpoint, strings.NewReader(body))
	if err != nil {
		return redact(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return redact(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var out struct {
		Return struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"return"`
	}
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &GatewayError{HTTPStatus: resp.StatusCode, Status: out.Return.Status, Message: out.Return.Message}
	}
	if out.Return.Status != 0 && out.Return.Status != http.StatusOK {
		return &GatewayError{HTTPStatus: resp.StatusCode, Status: out.Return.Status, Message: out.Return.Message}
	}

	return nil
}

// Close implements io.Closer.
func (k *Kavenegar) Close() error {
	k.client.CloseIdleConnections()
	return nil
}

// redact drops the request URL from transport errors; it embeds the API key.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("sms: %s request failed: %w", strings.ToLower(uerr.Op), uerr.Err)
	}
	return fmt.Errorf("sms: %w", err)
}
