package nsrdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gridpull/internal/grid"
)

const (
	// DefaultBaseURL is the PSM3 time-series CSV download endpoint.
	DefaultBaseURL = "https://developer.nrel.gov/api/nsrdb/v2/solar/psm3-download.csv"

	defaultHTTPTimeout = 120 * time.Second

	// bodySnippetLimit bounds how much of an error body lands in logs and
	// error markers.
	bodySnippetLimit = 200
)

// Credentials identifies the caller to NREL. All fields are required by the
// API; validation happens at load time, not here.
type Credentials struct {
	APIKey      string
	Email       string
	FullName    string
	Affiliation string
	Reason      string
}

// Request carries the per-run query parameters shared by every task.
type Request struct {
	Attributes []string
	Interval   int
	UTC        bool
	LeapDay    bool
}

// Config captures the runtime settings required to reach the API.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
	Credentials    Credentials
}

// Client issues PSM3 download requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a PSM3 client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	if strings.TrimSpace(client.cfg.BaseURL) == "" {
		client.cfg.BaseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch downloads the CSV payload for one task. The returned error, when
// non-nil, wraps one of the package sentinels.
func (c *Client) Fetch(ctx context.Context, task grid.Task, req Request) ([]byte, error) {
	endpoint, err := c.buildURL(task, req)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrPermanent, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %v", ErrPermanent, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", classifyNetErr(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransient, err)
	}
	return payload, nil
}

func (c *Client) buildURL(task grid.Task, req Request) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", err
	}

	creds := c.cfg.Credentials
	query := url.Values{}
	query.Set("wkt", fmt.Sprintf("POINT(%v %v)", task.Point.Lon, task.Point.Lat))
	query.Set("names", strconv.Itoa(task.Year))
	query.Set("interval", strconv.Itoa(req.Interval))
	query.Set("utc", strconv.FormatBool(req.UTC))
	query.Set("leap_day", strconv.FormatBool(req.LeapDay))
	query.Set("attributes", strings.Join(req.Attributes, ","))
	query.Set("email", creds.Email)
	query.Set("full_name", creds.FullName)
	query.Set("affiliation", creds.Affiliation)
	query.Set("reason", creds.Reason)
	query.Set("mailing_list", "false")
	query.Set("api_key", creds.APIKey)

	base.RawQuery = query.Encode()
	return base.String(), nil
}

// statusError classifies a non-200 response. 429 is the remote quota signal,
// 5xx is treated as a server-side outage, everything else 4xx is a permanent
// rejection of this request.
func statusError(resp *http.Response) error {
	snippet := readSnippet(resp.Body)
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: http 429: %s", ErrRateLimited, snippet)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: http %d: %s", ErrTransient, resp.StatusCode, snippet)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrPermanent, resp.StatusCode, snippet)
	}
}

func classifyNetErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTransient
	}
	// Connection resets, refused connections, and DNS hiccups are all worth
	// another attempt.
	return ErrTransient
}

func readSnippet(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, bodySnippetLimit))
	if err != nil || len(data) == 0 {
		return "(no body)"
	}
	return strings.TrimSpace(string(data))
}
