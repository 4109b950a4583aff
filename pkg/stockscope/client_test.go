package stockscope

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIStub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func TestOnline(t *testing.T) {
	client := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "online"})
	})
	assert.True(t, client.Online(context.Background()))
}

func TestOnlineServerDown(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	client := NewClient(ts.URL)
	assert.False(t, client.Online(context.Background()))
}

func TestHasData(t *testing.T) {
	client := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"has_data": true})
	})
	has, err := client.HasData(context.Background())
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStocks(t *testing.T) {
	client := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"stocks": []StockRecord{
				{Symbol: "AAPL", Name: "Apple", YTD: 12.5, Price: 190},
			},
			"count": 1,
		})
	})

	stocks, err := client.Stocks(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "AAPL", stocks[0].Symbol)
	assert.Equal(t, 12.5, stocks[0].YTD)
}

func TestStartTaskAccepted(t *testing.T) {
	var gotBody map[string]any
	client := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/fetch-data", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Started fetching stock data",
			"task":    "Fetching stock data",
		})
	})

	info, err := client.StartDataFetch(context.Background(), 50, true)
	require.NoError(t, err)
	assert.Equal(t, "Fetching stock data", info.Task)
	assert.Equal(t, float64(50), gotBody["max_stocks"])
	assert.Equal(t, true, gotBody["use_mock_data"])
}

func TestStartTaskConflictJoinsRunningTask(t *testing.T) {
	client := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Another task is already running: Fetching stock data",
			"task_info": TaskInfo{
				Task:     "Fetching stock data",
				Progress: 42,
				Total:    100,
				Message:  "Fetching AAPL (42/100)",
			},
		})
	})

	// A conflict is a join, not an error.
	info, err := client.StartRecommendations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Fetching stock data", info.Task)
	assert.Equal(t, 42, info.Progress)
}

func TestStartTaskServerError(t *testing.T) {
	client := newAPIStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "boom"})
	})

	_, err := client.StartRecommendations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestDownloadURL(t *testing.T) {
	client := NewClient("http://localhost:5000")
	assert.Equal(t,
		"http://localhost:5000/api/download/stock_recommendations_2025-06-01.txt",
		client.DownloadURL("stock_recommendations_2025-06-01.txt"))
}
