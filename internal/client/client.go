// Package client drives the report form: one submit-request-render cycle
// against /generate_report and a copy-to-clipboard action.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	GenerateReportPath = "/generate_report"
	TemplatesPath      = "/templates"
)

// ReportRequest is the JSON body sent to GenerateReportPath.
type ReportRequest struct {
	Findings string `json:"findings"`
	Template string `json:"template"`
}

// ReportResponse is the 2xx body as consumed. Either field may be empty.
type ReportResponse struct {
	Report string `json:"report"`
	Error  string `json:"error"`
}

// TemplateInfo is one entry of GET /templates.
type TemplateInfo struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Client talks to the report server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL. A nil hc uses a client without a
// timeout; request lifetime is left to ctx.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    hc,
	}
}

// Generate sends one POST to GenerateReportPath. Non-2xx statuses become an
// *HTTPError whose message is the body's "error" field when present, else
// "HTTP error! Status: {code}".
func (c *Client) Generate(ctx context.Context, req ReportRequest) (*ReportResponse, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GenerateReportPath, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, body)
	}

	var out ReportResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// ListTemplates fetches the template selectors offered by the server.
func (c *Client) ListTemplates(ctx context.Context) ([]TemplateInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+TemplatesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newHTTPError(resp.StatusCode, body)
	}

	var out struct {
		Templates []TemplateInfo `json:"templates"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Templates, nil
}

func newHTTPError(status int, body []byte) *HTTPError {
	var payload struct {
		Error string `json:"error"`
	}
	msg := fmt.Sprintf("HTTP error! Status: %d", status)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &HTTPError{StatusCode: status, Message: msg}
}
