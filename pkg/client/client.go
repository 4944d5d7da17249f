package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/takeru0219/repo-maintidx/internal/domain"
)

// Client is the API client for repo-maintidx
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Analyze triggers a fresh analysis of owner/repo and returns the report
func (c *Client) Analyze(owner, repo string) (*domain.Report, error) {
	path := fmt.Sprintf("/api/v1/repos/%s/%s/analyze", owner, repo)

	var response struct {
		Data *domain.Report `json:"data"`
	}
	if err := c.post(path, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// ListReports retrieves recent reports for owner/repo, newest first
func (c *Client) ListReports(owner, repo string, limit int) ([]*domain.Report, error) {
	path := fmt.Sprintf("/api/v1/repos/%s/%s/reports", owner, repo)
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var response struct {
		Data []*domain.Report `json:"data"`
	}
	if err := c.get(path, params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetReport retrieves one stored report by ID
func (c *Client) GetReport(id string) (*domain.Report, error) {
	path := fmt.Sprintf("/api/v1/reports/%s", id)

	var response struct {
		Data *domain.Report `json:"data"`
	}
	if err := c.get(path, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func (c *Client) get(path string, params url.Values, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, result)
}

func (c *Client) post(path string, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(u.String(), "application/json", bytes.NewReader(nil))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decodeResponse(resp, result)
}

func decodeResponse(resp *http.Response, result interface{}) error {
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
