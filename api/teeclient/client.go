// Package teeclient implements the client side of the Remote Delegation Protocol.
package teeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ruteri/tee-wallet-runtime/api"
	"github.com/ruteri/tee-wallet-runtime/interfaces"
)

// DefaultTimeout bounds every request made to a remote trust service.
const DefaultTimeout = 10 * time.Second

// MaxResponseBody bounds the response bodies read from a remote trust service.
const MaxResponseBody = 1 << 20

var defaultHTTPClient = &http.Client{Timeout: DefaultTimeout}

// Client talks to a single remote trust service.
// All failures are reported as interfaces.ErrOperationFailed.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// New creates a client for endpoint using DefaultTimeout.
func New(endpoint string) *Client {
	return &Client{
		Endpoint: strings.TrimSuffix(endpoint, "/"),
		HTTP:     &http.Client{Timeout: DefaultTimeout},
	}
}

// Status probes GET {endpoint}/api/tee/status. Any non-200 answer fails.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	body, err := c.do(ctx, http.MethodGet, api.StatusPath, nil)
	if err != nil {
		return nil, err
	}

	var status api.StatusResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, interfaces.OperationFailed("could not parse remote TEE status: %v", err)
		}
	}
	return &status, nil
}

// Initialize asks the remote service to initialize its own backend.
func (c *Client) Initialize(ctx context.Context) (*api.InitializeResponse, error) {
	body, err := c.do(ctx, http.MethodPost, api.InitializePath, nil)
	if err != nil {
		return nil, err
	}

	var resp api.InitializeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, interfaces.OperationFailed("could not parse remote TEE response: %v", err)
	}
	return &resp, nil
}

// Operation posts req to {endpoint}/api/tee/operation.
func (c *Client) Operation(ctx context.Context, req *api.OperationRequest) (*api.OperationResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, interfaces.OperationFailed("could not encode operation request: %v", err)
	}

	body, err := c.do(ctx, http.MethodPost, api.OperationPath, payload)
	if err != nil {
		return nil, err
	}

	var resp api.OperationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, interfaces.OperationFailed("could not parse remote TEE response: %v", err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Endpoint+path, reqBody)
	if err != nil {
		return nil, interfaces.OperationFailed("could not initialize request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = defaultHTTPClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, interfaces.OperationFailed("failed to connect to remote TEE service: %v", err)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBody+1))
	if err != nil {
		return nil, interfaces.OperationFailed("could not read remote TEE response: %v", err)
	}
	if len(body) > MaxResponseBody {
		return nil, interfaces.OperationFailed("remote TEE response exceeds %d bytes", MaxResponseBody)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, interfaces.OperationFailed("remote TEE service returned error: %s", resp.Status)
	}

	return body, nil
}
