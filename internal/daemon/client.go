package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/halos/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	userAgent      = "halos-cli/1.0"
)

// Client talks to a running planning API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for addr, either host:port or a full URL.
// Returns nil if addr is empty.
func NewClient(addr string) *Client {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{},
	}
}

// PlanReply is a plan served by the API.
type PlanReply struct {
	Plan     model.FreedomPlan
	CacheHit bool
}

// Status fetches the daemon counters.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/v1/status", nil)
	if err != nil {
		return nil, err
	}
	var st Status
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("daemon: parsing status: %w", err)
	}
	return &st, nil
}

// Events fetches the recent event buffer, oldest first.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/v1/events", nil)
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("daemon: parsing events: %w", err)
	}
	return events, nil
}

// Plan asks the API for a freedom plan. Empty strategy, nominal or start
// fall back to the daemon's defaults.
func (c *Client) Plan(ctx context.Context, h model.Household, strategy, nominal, start string) (*PlanReply, error) {
	body, header, err := c.do(ctx, http.MethodPost, "/v1/plan", planRequest{
		Household: h,
		Strategy:  strategy,
		Nominal:   nominal,
		Start:     start,
	})
	if err != nil {
		return nil, err
	}
	reply := &PlanReply{CacheHit: header.Get(cacheHeader) == "hit"}
	if err := json.Unmarshal(body, &reply.Plan); err != nil {
		return nil, fmt.Errorf("daemon: parsing plan: %w", err)
	}
	return reply, nil
}

// do sends a request with an optional JSON body and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("daemon: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("daemon: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("daemon: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, nil, ErrRateLimited
	case resp.StatusCode == http.StatusBadRequest:
		return nil, nil, fmt.Errorf("%w: %s", ErrBadRequest, errorMessage(body))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, nil, fmt.Errorf("daemon: unexpected status %d: %s", resp.StatusCode, errorMessage(body))
	}
	return body, resp.Header, nil
}

// errorMessage extracts the {"error": ...} text, or returns the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
