// Package verify asks the backend's symbolic-computation bridge for closed
// forms of a limit value.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxQueryLength is the longest expression the external service accepts.
const MaxQueryLength = 200

var ErrStatus = errors.New("verification request failed")

// ClosedForm is one candidate reported by the external service.
type ClosedForm struct {
	Plaintext   string `json:"plaintext"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Result is the decoded verification answer.
type Result struct {
	ClosedForms []ClosedForm `json:"closed_forms"`
	Metadata    MetadataList `json:"metadata"`
}

type response struct {
	WolframSays *Result `json:"wolfram_says"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Config struct {
	BaseURL string
	Path    string
	Timeout time.Duration
}

// Client posts expressions to the verification endpoint. It does not retry.
type Client struct {
	client *resty.Client
	path   string
}

func NewClient(cfg Config) *Client {
	path := cfg.Path
	if path == "" {
		path = "/verify"
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetHeader("Accept", "application/json")

	return &Client{client: client, path: path}
}

// Verify submits expression and returns the closed forms found. A response
// without a body is an empty result.
func (c *Client) Verify(ctx context.Context, expression string) (Result, error) {
	if len(expression) > MaxQueryLength {
		slog.Debug("truncating verification query", "length", len(expression))
		expression = expression[:MaxQueryLength]
	}

	var (
		out     response
		failure errorResponse
	)
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"expression": expression}).
		SetResult(&out).
		SetError(&failure).
		Post(c.path)
	if err != nil {
		return Result{}, fmt.Errorf("post %s: %w", c.path, err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := failure.Error
		if msg == "" {
			msg = resp.Status()
		}
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrStatus, resp.StatusCode(), msg)
	}
	if out.WolframSays == nil {
		return Result{}, nil
	}
	return *out.WolframSays, nil
}
