// Package provision allocates isolated cloud browser sessions for runs. The
// engine only depends on the Provisioner interface; the HTTP client below
// talks to the hosted browser service that issues a CDP endpoint and a
// live-view URL per invocation.
package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the HTTP timeout for provisioning calls.
const DefaultTimeout = 30 * time.Second

// CreateOptions scope a browser session to one invocation.
type CreateOptions struct {
	// InvocationID ties the session to the run that owns it.
	InvocationID string
	// Stealth requests anti-bot-detection hardening from the service.
	Stealth bool
	// PersistenceID, when set, resumes the cookies/storage of a prior session.
	// The engine only forwards it; the service owns that persistence.
	PersistenceID string
}

// Session is a provisioned remote browser. It must be released exactly once
// per run, on every exit path.
type Session struct {
	ID          string
	CDPWSURL    string
	LiveViewURL string

	closeFn func(context.Context) error
}

// NewSession builds a session with a custom release function. Production
// sessions come from Client.Create; tests use this to observe releases.
func NewSession(id, cdpWSURL, liveViewURL string, closeFn func(context.Context) error) *Session {
	return &Session{ID: id, CDPWSURL: cdpWSURL, LiveViewURL: liveViewURL, closeFn: closeFn}
}

// Close releases the remote session.
func (s *Session) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}

// Provisioner allocates browser sessions.
type Provisioner interface {
	Create(ctx context.Context, opts CreateOptions) (*Session, error)
}

// Error represents a provisioning failure.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provision error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provision error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client is the HTTP implementation of Provisioner.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a provisioning client for the service at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

type createRequest struct {
	InvocationID string              `json:"invocation_id,omitempty"`
	Stealth      bool                `json:"stealth"`
	Persistence  *persistenceRequest `json:"persistence,omitempty"`
}

type persistenceRequest struct {
	ID string `json:"id"`
}

type createResponse struct {
	SessionID   string `json:"session_id"`
	CDPWSURL    string `json:"cdp_ws_url"`
	LiveViewURL string `json:"browser_live_view_url"`
}

// Create allocates a browser session scoped to opts.InvocationID.
func (c *Client) Create(ctx context.Context, opts CreateOptions) (*Session, error) {
	reqBody := createRequest{
		InvocationID: opts.InvocationID,
		Stealth:      opts.Stealth,
	}
	if opts.PersistenceID != "" {
		reqBody.Persistence = &persistenceRequest{ID: opts.PersistenceID}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &Error{Message: "failed to encode create request", Cause: err}
	}

	var parsed createResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/browsers", payload, &parsed); err != nil {
		return nil, err
	}
	if parsed.CDPWSURL == "" {
		return nil, &Error{Message: "service returned no CDP endpoint"}
	}

	sessionID := parsed.SessionID
	return NewSession(sessionID, parsed.CDPWSURL, parsed.LiveViewURL, func(ctx context.Context) error {
		return c.do(ctx, http.MethodDelete, c.baseURL+"/browsers/"+sessionID, nil, nil)
	}), nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return &Error{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Message: fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{Message: "failed to decode response", Cause: err}
		}
	}
	return nil
}
