// Package client talks to the eqcoachd backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eqcoach/eqcoach/pkg/assessment"
)

// Submission is a stored assessment result as returned by the backend.
type Submission struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	assessment.Result
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

// Client is an eqcoachd API client. It satisfies assessment.Submitter.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New creates a Client for baseURL with the given bearer token.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

var _ assessment.Submitter = (*Client)(nil)

// Submit sends a complete answer list and returns the packaged result.
func (c *Client) Submit(ctx context.Context, answers []int) (*assessment.Result, error) {
	sub, err := c.SubmitAnswers(ctx, answers)
	if err != nil {
		return nil, err
	}
	return &sub.Result, nil
}

// SubmitAnswers is Submit, keeping the stored result's ID and timestamp.
func (c *Client) SubmitAnswers(ctx context.Context, answers []int) (*Submission, error) {
	body := struct {
		Answers []int `json:"answers"`
	}{Answers: answers}

	var out Submission
	if err := c.do(ctx, http.MethodPost, "/api/eq/submit", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Questionnaire fetches and validates the backend's questionnaire.
func (c *Client) Questionnaire(ctx context.Context) (*assessment.Definition, error) {
	var def assessment.Definition
	if err := c.do(ctx, http.MethodGet, "/api/eq/questionnaire", nil, &def); err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Latest returns the caller's most recent stored result.
func (c *Client) Latest(ctx context.Context) (*Submission, error) {
	var out Submission
	if err := c.do(ctx, http.MethodGet, "/api/eq/results/latest", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the caller's stored results, newest first.
func (c *Client) List(ctx context.Context) ([]Submission, error) {
	var out struct {
		Results []Submission `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/eq/results", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Get returns one stored result by ID.
func (c *Client) Get(ctx context.Context, id string) (*Submission, error) {
	var out Submission
	if err := c.do(ctx, http.MethodGet, "/api/eq/results/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
