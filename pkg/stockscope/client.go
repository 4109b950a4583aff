package stockscope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Default tuning knobs. Interval and delay are UX choices, not
// correctness properties; the retry count bounds how long a completed
// task may wait for its report file to appear.
const (
	DefaultPollInterval   = 1500 * time.Millisecond
	DefaultContentRetries = 5
	DefaultRetryDelay     = 2 * time.Second
)

// ErrNoFilename is returned by FetchContent for an empty filename; no
// network call is made.
var ErrNoFilename = errors.New("no filename provided")

// ErrFetchInFlight means another FetchContent call for the same
// filename is already running; the caller should let it populate the
// cache rather than starting a duplicate request.
var ErrFetchInFlight = errors.New("fetch already in flight")

// Client talks to a stockscope API server.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// PollInterval, ContentRetries, and RetryDelay tune AwaitTask; the
	// defaults suit interactive use.
	PollInterval   time.Duration
	ContentRetries int
	RetryDelay     time.Duration

	mu       sync.Mutex
	content  map[string]*ContentEntry
	inflight map[string]struct{}
}

// NewClient creates a client for the API at baseURL, e.g.
// "http://localhost:5000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		PollInterval:   DefaultPollInterval,
		ContentRetries: DefaultContentRetries,
		RetryDelay:     DefaultRetryDelay,
		content:        make(map[string]*ContentEntry),
		inflight:       make(map[string]struct{}),
	}
}

// ---------------------------------------------------------------------------
// Plain endpoint wrappers
// ---------------------------------------------------------------------------

// Online reports whether the API answers its status endpoint.
func (c *Client) Online(ctx context.Context) bool {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/api/status", &out); err != nil {
		return false
	}
	return out.Status == "online"
}

// HasData reports whether the server holds a fetched stock snapshot.
func (c *Client) HasData(ctx context.Context) (bool, error) {
	var out struct {
		HasData bool `json:"has_data"`
	}
	if err := c.getJSON(ctx, "/api/data-status", &out); err != nil {
		return false, err
	}
	return out.HasData, nil
}

// Results lists the generated reports, newest first.
func (c *Client) Results(ctx context.Context) ([]ResultFile, error) {
	var out struct {
		Files []ResultFile `json:"files"`
	}
	if err := c.getJSON(ctx, "/api/results", &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// TaskStatus returns the current background task snapshot.
func (c *Client) TaskStatus(ctx context.Context) (TaskInfo, error) {
	var out TaskInfo
	err := c.getJSON(ctx, "/api/task-status", &out)
	return out, err
}

// Stocks returns the server's current stock set.
func (c *Client) Stocks(ctx context.Context) ([]StockRecord, error) {
	var out struct {
		Stocks []StockRecord `json:"stocks"`
	}
	if err := c.getJSON(ctx, "/api/stocks", &out); err != nil {
		return nil, err
	}
	return out.Stocks, nil
}

// StartRecommendations asks the server to begin generating a report.
// A conflict is not a failure: when a task is already running its live
// snapshot is returned and the caller simply joins its progress.
func (c *Client) StartRecommendations(ctx context.Context) (TaskInfo, error) {
	return c.startTask(ctx, "/api/get-recommendations", nil)
}

// StartDataFetch asks the server to begin fetching stock data. Conflict
// handling matches StartRecommendations.
func (c *Client) StartDataFetch(ctx context.Context, maxStocks int, useMockData bool) (TaskInfo, error) {
	body := map[string]any{
		"max_stocks":    maxStocks,
		"use_mock_data": useMockData,
	}
	return c.startTask(ctx, "/api/fetch-data", body)
}

func (c *Client) startTask(ctx context.Context, path string, body any) (TaskInfo, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return TaskInfo{}, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return TaskInfo{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TaskInfo{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// Join the running task's progress stream.
		var conflict struct {
			TaskInfo TaskInfo `json:"task_info"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&conflict); err != nil {
			return TaskInfo{}, err
		}
		return conflict.TaskInfo, nil
	case resp.StatusCode >= 400:
		return TaskInfo{}, apiError(resp.StatusCode, resp.Body)
	default:
		var started struct {
			Task string `json:"task"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
			return TaskInfo{}, err
		}
		return TaskInfo{Task: started.Task}, nil
	}
}

// DownloadURL returns the raw download link for a report; the endpoint
// is a pass-through attachment.
func (c *Client) DownloadURL(filename string) string {
	return c.baseURL + "/api/download/" + filename
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, resp.Body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the server's message field when present.
func apiError(status int, body io.Reader) error {
	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&out); err == nil && out.Message != "" {
		return fmt.Errorf("api error %d: %s", status, out.Message)
	}
	return fmt.Errorf("api error %d", status)
}
