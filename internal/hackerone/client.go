// Package hackerone talks to the HackerOne hacker API and folds its answers
// into a model.ExternalProfileSummary.
//
// Three read-only endpoints are used, all with HTTP Basic auth
// (username:api_token):
//
//	GET /hackers/{username}          profile: reputation, signal, impact, program counts
//	GET /hackers/payments/balance    current payout balance
//	GET /hackers/{username}/reports  the hacker's reports
//
// The client only maps transport and HTTP status problems to apperror
// kinds. Which failures are fatal is decided by the caller.
package hackerone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakif/bounty-tracker/internal/apperror"
)

const (
	serviceName = "hackerone"

	DefaultBaseURL = "https://api.hackerone.com/v1"
	DefaultTimeout = 5 * time.Second

	// maxBodyBytes caps how much of a response is decoded.
	maxBodyBytes = 8 << 20
)

// Config is passed in explicitly; the client reads nothing from the
// environment.
type Config struct {
	BaseURL string
	// Timeout bounds each request on its own, not the whole sync.
	Timeout time.Duration
}

// DefaultConfig points at the public API with a 5 second per-call timeout.
func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout}
}

// Credentials authenticate one hacker account.
type Credentials struct {
	Username string
	Token    string
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client. Zero Config fields fall back to the defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

// Profile fetches GET /hackers/{username}.
func (c *Client) Profile(ctx context.Context, creds Credentials) (*Profile, error) {
	var env struct {
		Data struct {
			Attributes Profile `json:"attributes"`
		} `json:"data"`
	}
	if err := c.get(ctx, creds, "/hackers/"+url.PathEscape(creds.Username), &env); err != nil {
		return nil, err
	}
	return &env.Data.Attributes, nil
}

// Balance fetches GET /hackers/payments/balance. The balance is read from
// data.attributes.balance, or data.balance when there is no attributes
// object. A null or missing balance is returned as nil with no error.
func (c *Client) Balance(ctx context.Context, creds Credentials) (*decimal.Decimal, error) {
	var env struct {
		Data struct {
			Balance    decimal.NullDecimal `json:"balance"`
			Attributes struct {
				Balance decimal.NullDecimal `json:"balance"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := c.get(ctx, creds, "/hackers/payments/balance", &env); err != nil {
		return nil, err
	}

	bal := env.Data.Attributes.Balance
	if !bal.Valid {
		bal = env.Data.Balance
	}
	if !bal.Valid {
		return nil, nil
	}
	return &bal.Decimal, nil
}

// Reports fetches GET /hackers/{username}/reports. Records that cannot be
// decoded are logged and skipped; the rest are returned.
func (c *Client) Reports(ctx context.Context, creds Credentials) ([]RawReport, error) {
	var env struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := c.get(ctx, creds, "/hackers/"+url.PathEscape(creds.Username)+"/reports", &env); err != nil {
		return nil, err
	}

	reports := make([]RawReport, 0, len(env.Data))
	for i, raw := range env.Data {
		var rec struct {
			Attributes RawReport `json:"attributes"`
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			c.logger.Warn("skipping malformed report record",
				slog.String("service", serviceName),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		reports = append(reports, rec.Attributes)
	}
	return reports, nil
}

// get performs one authenticated GET under its own timeout and decodes a
// 2xx JSON body into out.
func (c *Client) get(ctx context.Context, creds Credentials, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("hackerone: creating request for %s: %w", path, err)
	}
	req.SetBasicAuth(creds.Username, creds.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.UpstreamUnreachable(serviceName, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("hackerone request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return statusError(resp.StatusCode, creds.Username)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperror.UpstreamUnreachable(serviceName, err)
		}
		c.logger.Warn("hackerone returned an undecodable body",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return apperror.UpstreamMalformed(serviceName, err)
	}
	return nil
}

// statusError maps a non-2xx status to an error kind.
func statusError(status int, username string) error {
	switch status {
	case http.StatusUnauthorized:
		return apperror.Unauthorized("hackerone rejected the stored credentials")
	case http.StatusForbidden:
		return apperror.Forbidden("hackerone denied access with the stored credentials")
	case http.StatusNotFound:
		return apperror.NotFound("hackerone user", username)
	default:
		return apperror.Upstream(serviceName, status)
	}
}
