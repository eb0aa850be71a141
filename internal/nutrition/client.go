package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/config"
	"github.com/wichananm65/smoothie-order-form/internal/logger"
)

const maxBodyBytes = 1 << 20

// Result is the outcome of one lookup. Available is false when the API
// answered with a non-success status or an unusable body; StatusCode and
// Reason then say why. Record is passed through untouched.
type Result struct {
	LookupKey  string          `json:"lookupKey"`
	Available  bool            `json:"available"`
	StatusCode int             `json:"statusCode,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Record     json.RawMessage `json:"record,omitempty"`
}

// Client fetches nutrition facts, one request per lookup key. It keeps no
// cache and is safe for concurrent use.
type Client struct {
	http        *http.Client
	baseURL     string
	timeout     time.Duration
	concurrency int
	log         *zap.Logger
}

func NewClient(httpClient *http.Client, cfg config.Nutrition, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		timeout:     cfg.Timeout,
		concurrency: concurrency,
		log:         logger.Component(log, "nutrition"),
	}
}

// Fetch performs GET {base}/{lookupKey}. Only a 200 with a JSON body is
// available; any other HTTP answer is an unavailable Result with a nil error.
// Keys that are "." or ".." are refused without a request. Only transport
// failures (timeouts, DNS, refused or reset connections) return a
// *NetworkError.
func (c *Client) Fetch(ctx context.Context, lookupKey string) (Result, error) {
	res := Result{LookupKey: lookupKey}
	switch strings.TrimSpace(lookupKey) {
	case "":
		res.Reason = "missing lookup key"
		return res, nil
	case ".", "..":
		res.Reason = "invalid lookup key"
		return res, nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + "/" + url.PathEscape(lookupKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, c.networkError(lookupKey, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, c.networkError(lookupKey, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		res.Reason = http.StatusText(resp.StatusCode)
		c.log.Warn("nutrition lookup unavailable",
			zap.String("lookup_key", lookupKey),
			zap.Int("status", resp.StatusCode))
		return res, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return Result{}, c.networkError(lookupKey, err)
	}
	switch {
	case len(body) > maxBodyBytes:
		res.Reason = "body too large"
	case !json.Valid(body):
		res.Reason = "invalid body"
	default:
		res.Available = true
		res.Record = json.RawMessage(body)
		return res, nil
	}
	c.log.Warn("nutrition lookup unusable",
		zap.String("lookup_key", lookupKey),
		zap.String("reason", res.Reason))
	return res, nil
}

func (c *Client) networkError(lookupKey string, err error) error {
	c.log.Error("nutrition lookup failed", zap.String("lookup_key", lookupKey), zap.Error(err))
	return &NetworkError{LookupKey: lookupKey, Err: err}
}

// ErrNetwork matches every *NetworkError via errors.Is.
var ErrNetwork = errors.New("nutrition api unreachable")

// NetworkError is a transport-level failure talking to the nutrition API.
type NetworkError struct {
	LookupKey string
	Err       error
}

func (e *NetworkError) Error() string {
	return "nutrition: fetch " + e.LookupKey + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
