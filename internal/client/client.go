// Package client provides an HTTP client for the listing-explorer JSON API
// served by `lx serve`.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/report"
)

// Client is an HTTP client for the dashboard API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Health checks the server is up.
func (c *Client) Health() error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("server status %q", resp.Status)
	}
	return nil
}

// Controls returns the filter controls of the server's table.
func (c *Client) Controls() (*listing.Controls, error) {
	var page struct {
		Controls listing.Controls `json:"controls"`
	}
	if err := c.get("/api/summary", nil, &page); err != nil {
		return nil, err
	}
	return &page.Controls, nil
}

// Listings filters the server's table by crit.
func (c *Client) Listings(crit listing.Criteria) (*report.Selection, error) {
	var sel report.Selection
	if err := c.get("/api/listings", criteriaQuery(crit), &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

// criteriaQuery encodes crit with the parameter names the dashboard form
// uses. Every field is sent so the server's defaults never apply.
func criteriaQuery(crit listing.Criteria) url.Values {
	q := url.Values{}
	q.Set("price_min", strconv.FormatFloat(crit.PriceMin, 'f', -1, 64))
	q.Set("price_max", strconv.FormatFloat(crit.PriceMax, 'f', -1, 64))
	q.Set("min_nights", strconv.Itoa(crit.MaxNights))
	q.Set("min_reviews", strconv.Itoa(crit.MinReviews))
	q.Set("neighbourhood", crit.Neighbourhood)
	q.Set("room_type", crit.RoomType)
	return q
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(path string, query url.Values, result interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
