package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// Config holds connection settings for an OpenSearch cluster.
type Config struct {
	// Addresses lists the cluster node URLs.
	// Example: "http://localhost:9200"
	Addresses []string

	// Username and Password are optional basic-auth credentials. Both are
	// empty for a cluster running with security disabled.
	Username string
	Password string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAddress sets a single cluster node URL.
func WithAddress(address string) ConfigOption {
	return func(c *Config) {
		c.Addresses = []string{address}
	}
}

// WithCredentials sets basic-auth credentials.
func WithCredentials(username, password string) ConfigOption {
	return func(c *Config) {
		c.Username = username
		c.Password = password
	}
}

// DefaultConfig returns a Config pointing at a local security-disabled cluster.
func DefaultConfig() *Config {
	return &Config{
		Addresses: []string{"http://localhost:9200"},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if len(c.Addresses) == 0 {
		return errors.New("opensearch config: at least one address is required")
	}
	return nil
}

// Client wraps the OpenSearch REST API surface used by the experiment:
// cluster settings, the ML commons plugin, ingest pipelines, index
// management, bulk ingestion, and k-NN/neural search.
type Client struct {
	os     *opensearch.Client
	logger *slog.Logger
}

// NewClient creates a client for the configured cluster. No connection is
// attempted until the first request; use Ping to verify reachability.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	osc, err := opensearch.NewClient(opensearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		os:     osc,
		logger: slog.Default().With("component", "opensearch-client"),
	}, nil
}

// Ping reports whether the cluster is reachable.
func (c *Client) Ping(ctx context.Context) error {
	res, err := opensearchapi.PingRequest{}.Do(ctx, c.os)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: ping returned status %s", ErrUnreachable, res.Status())
	}
	return nil
}

// Info fetches the cluster identification payload.
func (c *Client) Info(ctx context.Context) (*ClusterInfo, error) {
	res, err := opensearchapi.InfoRequest{}.Do(ctx, c.os)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: info returned status %s", ErrUnreachable, res.Status())
	}

	var info ClusterInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &info, nil
}

// performJSON issues a request against a raw path, for plugin endpoints that
// have no typed request in the client library. A nil out skips decoding.
func (c *Client) performJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.os.Perform(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: status %d: %s", method, path, res.StatusCode, bytes.TrimSpace(payload))
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	return nil
}

// readAck consumes an acknowledged-style response body.
func readAck(res *opensearchapi.Response) error {
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("status %s", res.Status())
	}

	var out ackResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !out.Acknowledged {
		return ErrNotAcknowledged
	}
	return nil
}
