package outlook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/foldersync/internal/apierror"
)

// DefaultBaseURL is the production Microsoft Graph endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// Client is a thin HTTP client for the Graph mailFolders API. It
// handles Bearer authentication and JSON marshaling; non-2xx responses
// come back as *apierror.RemoteError carrying the Graph error code
// (e.g. ErrorFolderExists). The client itself never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Graph API client. An empty baseURL selects the
// production endpoint; tests point it at a local server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get performs an HTTP GET against a path under the base URL.
func (c *Client) Get(ctx context.Context, credential, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, credential, c.baseURL+path, nil, result)
}

// GetURL performs an HTTP GET against an absolute URL, used to follow
// @odata.nextLink pagination links.
func (c *Client) GetURL(ctx context.Context, credential, url string, result interface{}) error {
	return c.do(ctx, http.MethodGet, credential, url, nil, result)
}

// Post performs an HTTP POST with a JSON body against a path under the
// base URL.
func (c *Client) Post(ctx context.Context, credential, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, credential, c.baseURL+path, body, result)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	credential string,
	url string,
	body interface{},
	result interface{},
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, url, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp, respBody)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, url, err)
	}

	return nil
}

// remoteError builds a structured error from a non-2xx response,
// pulling the code out of the Graph error envelope when present.
func remoteError(resp *http.Response, body []byte) error {
	remote := &apierror.RemoteError{
		Status:     resp.StatusCode,
		RetryAfter: retryAfter(resp),
	}

	var envelope ErrorResponse
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Code != "" {
		remote.ProviderCode = envelope.Error.Code
		remote.Message = envelope.Error.Message
	} else {
		remote.Message = strings.TrimSpace(string(body))
	}

	return remote
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
