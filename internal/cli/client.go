package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/haskel/monix/internal/sampler"
)

// Client is an HTTP client for the monix API
type Client struct {
	baseURL  string
	client   *http.Client
	user     string
	password string
}

// NewClient creates a new API client
func NewClient() *Client {
	return &Client{
		baseURL: GetServerURL(),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		user:     user,
		password: password,
	}
}

// Get performs a GET request
func (c *Client) Get(path string) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	// Add auth if provided
	if c.user != "" && c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return data, resp.StatusCode, nil
}

// Health checks if server is running
func (c *Client) Health() error {
	_, status, err := c.Get("/health")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d", status)
	}
	return nil
}

// Snapshot fetches the latest snapshot. The raw body is returned too so
// callers can print it verbatim.
func (c *Client) Snapshot() (*sampler.Snapshot, []byte, error) {
	data, status, err := c.Get("/snapshot")
	if err != nil {
		return nil, nil, err
	}
	if status != http.StatusOK {
		return nil, data, fmt.Errorf("server returned status %d: %s", status, data)
	}

	var snap sampler.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, data, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, data, nil
}
