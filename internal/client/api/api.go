// Package api implements the HTTP facade used by the client stores.
// It issues requests against the backend REST API, attaching the stored
// bearer credential when one is present and normalizing non-success
// responses into errors carrying the server's message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// CredentialSource yields the bearer credential attached to outgoing
// requests. The credentials.Store satisfies it.
type CredentialSource interface {
	// Load returns the current credential and true, or "" and false
	// when the client is anonymous.
	Load() (string, bool)
}

// FormPayload is a pre-encoded request body, typically a multipart form
// carrying a file, sent as-is with its own content type.
type FormPayload struct {
	// ContentType is the value of the Content-Type header, including
	// the multipart boundary.
	ContentType string
	// Body is the encoded form data.
	Body io.Reader
}

// APIError is a server-reported failure: a non-2xx status whose body
// carried a message, or a generic status-coded fallback.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the human-readable error, taken from the response
	// body's "message" field when present.
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client issues authenticated requests against a backend API.
type Client struct {
	baseURL string
	creds   CredentialSource
	httpc   *http.Client
}

// New constructs a Client for the API rooted at baseURL. creds may be
// nil for a client that never authenticates; httpc may be nil to use
// http.DefaultClient.
func New(baseURL string, creds CredentialSource, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{baseURL: baseURL, creds: creds, httpc: httpc}
}

// Do sends a single request to path (relative to the base URL) and
// returns the raw response. body may be nil, a *FormPayload sent
// verbatim, or any JSON-serializable value. The caller owns the
// response body. There are no retries: a failed attempt surfaces
// immediately.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case *FormPayload:
		reader = b.Body
		contentType = b.ContentType
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.creds != nil {
		if token, ok := c.creds.Load(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.httpc.Do(req)
}

// DoJSON sends a request like Do and decodes the JSON response body
// into out (which may be nil to discard it). An empty or malformed body
// is tolerated and treated as an empty record. A non-2xx status yields
// an *APIError whose message comes from the body's "message" field,
// falling back to "Error <status>".
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &failure)
		if failure.Message == "" {
			failure.Message = fmt.Sprintf("Error %d", resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: failure.Message}
	}

	if out != nil {
		// A non-JSON success body decodes as an empty record.
		_ = json.Unmarshal(data, out)
	}
	return nil
}
