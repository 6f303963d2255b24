package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/leshachaplin/gosquared/internal/domain"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	url  string
	http HTTPClient
}

func NewClient(url string, httpClient HTTPClient) *Client {
	return &Client{
		url:  url,
		http: httpClient,
	}
}

type eventReq struct {
	Event    domain.Event      `json:"event"`
	Settings map[string]string `json:"settings"`
}

type apiError struct {
	Message string `json:"message"`
	HTTP    struct {
		Code int `json:"code"`
	} `json:"http"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return req, nil
}

// Post sends the event to /v1/{kind}{suffix} and decodes the answer into out
// when the status matches expected.
func (c *Client) Post(ctx context.Context, kind domain.Kind, suffix string, in eventReq, expected int, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/"+string(kind)+suffix, bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func settings() map[string]string {
	return map[string]string{
		"api_key":    "it-key",
		"site_token": "GSN-000000-X",
	}
}

func pageEvent() domain.Event {
	return domain.Event{
		Timestamp: 1700000000,
		Context: domain.Context{
			User: domain.User{UserID: "u-1", AnonymousID: "anon-1"},
			Page: domain.Page{URL: "https://example.com/docs", Title: "Docs"},
			Client: domain.Client{
				IP:        "203.0.113.7",
				UserAgent: "it-agent",
				Locale:    "en-US",
			},
		},
		Data: domain.Data{
			Type: domain.KindPage,
			Page: &domain.PageData{Properties: map[string]string{"section": "docs"}},
		},
	}
}
