package stockscope

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskServer fakes the polling surface: task status transitions plus the
// results listing and report content.
type taskServer struct {
	statusCalls  atomic.Int64
	resultsCalls atomic.Int64
	viewCalls    atomic.Int64

	pendingPolls int64  // polls to answer "running" before completing
	finalMessage string // completion message
	failStatus   int64  // status requests to fail with 500 first
	emptyResults int64  // results requests to answer empty first
	failContent  bool   // every content request fails with 500
	files        []ResultFile
	content      string
}

func (s *taskServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/task-status", func(w http.ResponseWriter, r *http.Request) {
		n := s.statusCalls.Add(1)
		if n <= s.failStatus {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		info := TaskInfo{Task: "Generating recommendations", Progress: int(n), Total: 100, Message: "working"}
		if n > s.failStatus+s.pendingPolls {
			info = TaskInfo{Progress: 100, Total: 100, Message: s.finalMessage, Complete: true}
		}
		json.NewEncoder(w).Encode(info)
	})
	mux.HandleFunc("GET /api/results", func(w http.ResponseWriter, r *http.Request) {
		n := s.resultsCalls.Add(1)
		files := s.files
		if n <= s.emptyResults {
			files = nil
		}
		if files == nil {
			files = []ResultFile{}
		}
		json.NewEncoder(w).Encode(map[string]any{"files": files})
	})
	mux.HandleFunc("GET /api/view-recommendation/{filename}", func(w http.ResponseWriter, r *http.Request) {
		s.viewCalls.Add(1)
		if s.failContent {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{"message": "disk not ready"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "content": s.content})
	})
	return mux
}

func newPollFixture(t *testing.T, fake *taskServer) *Client {
	t.Helper()
	ts := httptest.NewServer(fake.handler())
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL)
	client.PollInterval = time.Millisecond
	client.RetryDelay = time.Millisecond
	return client
}

func TestAwaitTaskSuccess(t *testing.T) {
	fake := &taskServer{
		pendingPolls: 3,
		finalMessage: "Analysis complete! Recommendations saved to stock_recommendations_2025-06-01.txt",
		files:        []ResultFile{{Name: "stock_recommendations_2025-06-01.txt", Date: time.Now(), Size: 42}},
		content:      "1. Buy AAPL.",
	}
	client := newPollFixture(t, fake)

	var progressCalls int
	result, err := client.AwaitTask(context.Background(), func(info TaskInfo) {
		progressCalls++
	})
	require.NoError(t, err)

	assert.True(t, result.Info.Complete)
	assert.Equal(t, "stock_recommendations_2025-06-01.txt", result.Filename)
	require.NotNil(t, result.Entry)
	assert.Equal(t, "1. Buy AAPL.", result.Entry.Content)
	assert.GreaterOrEqual(t, progressCalls, 4, "every poll reports progress")
}

func TestAwaitTaskErrorMessage(t *testing.T) {
	fake := &taskServer{finalMessage: "Error: no data available"}
	client := newPollFixture(t, fake)

	_, err := client.AwaitTask(context.Background(), nil)
	require.EqualError(t, err, "no data available")
	assert.Zero(t, fake.resultsCalls.Load(), "a failed task must not load results")
}

func TestAwaitTaskRetriesExhausted(t *testing.T) {
	fake := &taskServer{
		finalMessage: "Analysis complete! Recommendations saved to x.txt",
		emptyResults: 1 << 30, // listing never shows the file
	}
	client := newPollFixture(t, fake)
	client.ContentRetries = 5

	_, err := client.AwaitTask(context.Background(), nil)
	require.ErrorIs(t, err, ErrContentUnavailable)
	assert.Equal(t, int64(5), fake.resultsCalls.Load(), "exactly ContentRetries listing attempts")
	assert.Zero(t, fake.viewCalls.Load())
}

func TestAwaitTaskContentEndpointFailing(t *testing.T) {
	fake := &taskServer{
		finalMessage: "Analysis complete! Recommendations saved to stock_recommendations_2025-06-01.txt",
		files:        []ResultFile{{Name: "stock_recommendations_2025-06-01.txt", Date: time.Now()}},
		failContent:  true,
	}
	client := newPollFixture(t, fake)
	client.ContentRetries = 5

	_, err := client.AwaitTask(context.Background(), nil)
	require.ErrorIs(t, err, ErrContentUnavailable)
	assert.Equal(t, int64(5), fake.viewCalls.Load(), "a sixth content attempt must never happen")
}

func TestAwaitTaskContentAppearsLate(t *testing.T) {
	fake := &taskServer{
		finalMessage: "Analysis complete! Recommendations saved to stock_recommendations_2025-06-01.txt",
		emptyResults: 2,
		files:        []ResultFile{{Name: "stock_recommendations_2025-06-01.txt", Date: time.Now()}},
		content:      "late report",
	}
	client := newPollFixture(t, fake)

	result, err := client.AwaitTask(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "late report", result.Entry.Content)
	assert.Equal(t, int64(3), fake.resultsCalls.Load())
}

func TestAwaitTaskToleratesMissedPolls(t *testing.T) {
	fake := &taskServer{
		failStatus:   2,
		finalMessage: "Data fetching complete!",
		files:        []ResultFile{{Name: "stock_recommendations_2025-06-01.txt", Date: time.Now()}},
		content:      "ok",
	}
	client := newPollFixture(t, fake)

	result, err := client.AwaitTask(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, result.Info.Complete)
}

func TestAwaitTaskCancellation(t *testing.T) {
	fake := &taskServer{pendingPolls: 1 << 30} // never completes
	client := newPollFixture(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.AwaitTask(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
