package spacex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

const (
	// DefaultBaseURL is the public v4 SpaceX API.
	DefaultBaseURL = "https://api.spacexdata.com/v4"

	// DefaultTimeout is the per-request timeout used when none is configured.
	DefaultTimeout = 10 * time.Second

	maxResponseBodySize = 1 << 20 // 1MB
)

// connection pooling limits; three sequential requests to one host per refresh
const (
	defaultMaxIdleConns        = 10
	defaultMaxIdleConnsPerHost = 3
	defaultIdleConnTimeout     = 60 * time.Second
)

const (
	pathRoadster     = "/roadster"
	pathNextLaunch   = "/launches/next"
	pathLatestLaunch = "/launches/latest"
)

// launchEnvelope is the subset of a launch payload that must be well-formed.
type launchEnvelope struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	DateUnix *float64 `json:"date_unix" validate:"omitempty,gte=0"`
	TBD      *bool    `json:"tbd"`
}

// roadsterEnvelope is the subset of the roadster payload that must be well-formed.
type roadsterEnvelope struct {
	ID              string   `json:"id" validate:"required"`
	SpeedKPH        *float64 `json:"speed_kph" validate:"omitempty,gte=0"`
	EarthDistanceKM *float64 `json:"earth_distance_km" validate:"omitempty,gte=0"`
}

// Client fetches launch and roadster documents from the SpaceX API.
//
// Client uses per-request timeouts via context rather than a global client
// timeout. Response bodies are limited to 1MB.
type Client struct {
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
	httpClient *http.Client
	validate   *validator.Validate
}

// NewClient creates a [Client] for the API rooted at baseURL.
//
// An empty baseURL selects [DefaultBaseURL] and a non-positive timeout
// selects [DefaultTimeout]. headers are sent with every request.
func NewClient(baseURL string, timeout time.Duration, headers map[string]string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		timeout: timeout,
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		validate: validator.New(),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetRoadsterStatus fetches the Starman roadster telemetry document.
func (c *Client) GetRoadsterStatus(ctx context.Context) (Document, error) {
	return c.fetch(ctx, "get_roadster_status", pathRoadster, &roadsterEnvelope{})
}

// GetNextLaunch fetches the next scheduled launch document.
func (c *Client) GetNextLaunch(ctx context.Context) (Document, error) {
	return c.fetch(ctx, "get_next_launch", pathNextLaunch, &launchEnvelope{})
}

// GetLatestLaunch fetches the most recent launch document.
func (c *Client) GetLatestLaunch(ctx context.Context) (Document, error) {
	return c.fetch(ctx, "get_latest_launch", pathLatestLaunch, &launchEnvelope{})
}

// Ping checks that the API is reachable and answering with valid payloads.
// It fetches the next launch and discards the result.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetNextLaunch(ctx)
	return err
}

// Close closes all idle connections in the client's connection pool.
// Safe to call multiple times and on a nil client.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// fetch performs a GET against path, decodes the body as a JSON object and
// checks it against envelope.
func (c *Client) fetch(ctx context.Context, op, path string, envelope any) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ConnectionError{Op: op, URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Op: op, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return nil, &ConnectionError{Op: op, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, &ConnectionError{Op: op, URL: url, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return c.decode(op, body, envelope)
}

// decode turns a response body into a Document, rejecting anything that is
// not a JSON object or whose well-known fields have the wrong shape.
func (c *Client) decode(op string, body []byte, envelope any) (Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ValidationError{Op: op, Reason: "body is not a JSON object", Err: err}
	}
	if doc == nil {
		return nil, &ValidationError{Op: op, Reason: "body is null"}
	}

	if err := json.Unmarshal(body, envelope); err != nil {
		return nil, &ValidationError{Op: op, Reason: "unexpected field type", Err: err}
	}
	if err := c.validate.Struct(envelope); err != nil {
		return nil, &ValidationError{Op: op, Reason: "required field missing or out of range", Err: err}
	}

	return doc, nil
}
