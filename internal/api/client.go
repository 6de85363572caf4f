// Package api wraps the IntelliNote backend HTTP interface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/intellinote/forge/internal/intake"
	"github.com/intellinote/forge/internal/session"
)

// HTTPClient interface for HTTP requests (enables testing)
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Verify http.Client implements HTTPClient
var _ HTTPClient = (*http.Client)(nil)

// TokenSource supplies the current bearer token, or "" when anonymous.
// The client reads it fresh per request and never caches it.
type TokenSource func() string

// Client issues requests against a fixed base address. The underlying
// http.Client carries no timeout: AI processing can legitimately take
// minutes and a hung request is preferable to a spurious cancellation.
type Client struct {
	baseURL string
	http    HTTPClient
	token   TokenSource
}

// New creates a client for the given base address.
func New(baseURL string, token TokenSource) *Client {
	return NewWithHTTPClient(baseURL, token, &http.Client{})
}

// NewWithHTTPClient creates a client with a custom transport, for tests.
func NewWithHTTPClient(baseURL string, token TokenSource, hc HTTPClient) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		token:   token,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

type healthResponse struct {
	Status string `json:"status"`
}

// CheckHealth probes GET /health. A nil error means the backend reported
// itself healthy. A transport failure comes back as the distinguished
// cannot-connect error; any other body is an unhealthy report.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return connectError(c.baseURL)
	}
	defer resp.Body.Close()

	var hr healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if hr.Status != "healthy" {
		return fmt.Errorf("backend reported status %q", hr.Status)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	User        session.Profile `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	var lr loginResponse
	err := c.postJSON(ctx, "/login", loginRequest{Email: email, Password: password}, &lr, false)
	if err != nil {
		return nil, err
	}
	if lr.AccessToken == "" {
		return nil, &Error{Kind: KindOther, Message: "An error occurred while processing your request."}
	}
	return &session.Session{Token: lr.AccessToken, User: lr.User}, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The backend issues no token here; the caller
// must log in afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.postJSON(ctx, "/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, nil, false)
}

type askRequest struct {
	Text       string `json:"text"`
	PromptType string `json:"prompt_type"`
}

// AskText sends a text-only analysis request to POST /ask/ai.
func (c *Client) AskText(ctx context.Context, text string) (*Result, error) {
	var raw rawResult
	err := c.postJSON(ctx, "/ask/ai", askRequest{Text: text, PromptType: "analyze"}, &raw, true)
	if err != nil {
		return nil, err
	}
	return raw.normalize(), nil
}

// UploadPDF posts the attachment as multipart form data, always requesting
// summarization. message is optional context for the analysis.
func (c *Client) UploadPDF(ctx context.Context, att *intake.Attachment, message string) (*Result, error) {
	token := c.token()
	if token == "" {
		return nil, noTokenError()
	}

	f, err := os.Open(att.Path)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", att.Name)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	if message != "" {
		if err := mw.WriteField("message", message); err != nil {
			return nil, fmt.Errorf("build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/upload/pdf?summarize=true", &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, connectError(c.baseURL)
	}
	defer resp.Body.Close()

	var raw rawResult
	if err := c.decodeResponse(resp, &raw); err != nil {
		return nil, err
	}
	return raw.normalize(), nil
}

// postJSON issues a JSON POST and decodes a 2xx body into out (which may be
// nil). authed requests carry the bearer token and fail fast without one.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any, authed bool) error {
	var token string
	if authed {
		token = c.token()
		if token == "" {
			return noTokenError()
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return connectError(c.baseURL)
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, out)
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		// Best effort: a missing or non-JSON body still classifies fine.
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb)
		return classifyStatus(resp.StatusCode, eb.Detail)
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
