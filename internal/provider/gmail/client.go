package gmail

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

// DefaultBaseURL is the production Gmail REST endpoint.
const DefaultBaseURL = "https://gmail.googleapis.com/gmail/v1"

// Client is a thin HTTP client for the Gmail labels API. It handles
// Bearer authentication and JSON marshaling; non-2xx responses come
// back as *apierror.RemoteError so the caller's retry policy can
// classify them. The client itself never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Gmail API client. An empty baseURL selects the
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

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, credential, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, credential, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(ctx context.Context, credential, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, credential, path, body, result)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	credential string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

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
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
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
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

// remoteError builds a structured error from a non-2xx response,
// pulling the reason code out of the Gmail error envelope when present.
func remoteError(resp *http.Response, body []byte) error {
	remote := &apierror.RemoteError{
		Status:     resp.StatusCode,
		RetryAfter: retryAfter(resp),
	}

	var envelope ErrorResponse
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
		remote.Message = envelope.Error.Message
		if len(envelope.Error.Errors) > 0 {
			remote.ProviderCode = envelope.Error.Errors[0].Reason
		}
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
