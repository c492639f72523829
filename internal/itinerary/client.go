package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Generator produces an itinerary for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// StatusError is returned for non-2xx replies from the itinerary service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("itinerary service returned status=%d body=%s", e.Status, e.Body)
}

// Client posts requests to a fixed itinerary service endpoint. It makes one
// attempt per call; deadlines come from the caller's context.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{},
	}
}

// NewClientWithHTTP is NewClient with a caller-supplied http.Client.
func NewClientWithHTTP(endpoint string, hc *http.Client) *Client {
	c := NewClient(endpoint)
	if hc != nil {
		c.http = hc
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	blob, err := c.doJSON(ctx, http.MethodPost, payload)
	if err != nil {
		return Response{}, err
	}
	var resp Response
	if err := json.Unmarshal(blob, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return blob, &StatusError{Status: resp.StatusCode, Body: string(blob)}
	}
	return blob, nil
}
