package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"stockscope/internal/domain"
	"stockscope/internal/recommend"
	"stockscope/internal/stockdata"
	"stockscope/internal/task"
)

// Server serves the dashboard REST API.
type Server struct {
	dataDir   string
	runner    *task.Runner
	snapshots *stockdata.SnapshotStore
	archive   *stockdata.Archive
	reports   *recommend.Store
	engine    *recommend.Engine
	log       *slog.Logger
}

// NewServer wires the API server from its collaborators.
func NewServer(
	dataDir string,
	runner *task.Runner,
	snapshots *stockdata.SnapshotStore,
	archive *stockdata.Archive,
	reports *recommend.Store,
	engine *recommend.Engine,
	log *slog.Logger,
) *Server {
	return &Server{
		dataDir:   dataDir,
		runner:    runner,
		snapshots: snapshots,
		archive:   archive,
		reports:   reports,
		engine:    engine,
		log:       log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/data-status", s.handleDataStatus)
	mux.HandleFunc("POST /api/fetch-data", s.handleFetchData)
	mux.HandleFunc("POST /api/get-recommendations", s.handleGetRecommendations)
	mux.HandleFunc("GET /api/task-status", s.handleTaskStatus)
	mux.HandleFunc("GET /api/results", s.handleResults)
	mux.HandleFunc("GET /api/view-recommendation/{filename}", s.handleViewRecommendation)
	mux.HandleFunc("GET /api/download/{filename}", s.handleDownload)
	mux.HandleFunc("GET /api/mock-data", s.handleMockData)
	mux.HandleFunc("GET /api/stocks", s.handleStocks)
	mux.HandleFunc("GET /api/snapshots", s.handleSnapshots)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Message: msg})
}

// ---------------------------------------------------------------------------
// Status and data availability
// ---------------------------------------------------------------------------

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatusResponse{
		Status:    "online",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleDataStatus(w http.ResponseWriter, r *http.Request) {
	n, err := s.snapshots.Count(r.Context())
	if err != nil {
		s.log.Warn("counting snapshot rows", "error", err)
	}
	writeJSON(w, DataStatusResponse{HasData: n > 0})
}

// ---------------------------------------------------------------------------
// Background tasks
// ---------------------------------------------------------------------------

func (s *Server) handleFetchData(w http.ResponseWriter, r *http.Request) {
	// An empty body is fine; all fields have workable defaults.
	var req FetchDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MaxStocks <= 0 {
		req.MaxStocks = 100
	}

	s.startTask(w, "Fetching stock data", func(rep *task.Reporter) error {
		return s.fetchDataTask(rep, req.MaxStocks, req.UseMockData)
	})
}

func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	s.startTask(w, "Generating recommendations", s.recommendationsTask)
}

// startTask claims the task slot; an occupied slot turns into a 409
// carrying the live snapshot so clients join it instead of failing.
func (s *Server) startTask(w http.ResponseWriter, name string, fn task.Fn) {
	info, err := s.runner.Start(name, fn)
	if errors.Is(err, task.ErrTaskRunning) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(TaskConflictResponse{
			Message:  fmt.Sprintf("Another task is already running: %s", info.Task),
			TaskInfo: info,
		})
		return
	}
	writeJSON(w, TaskStartResponse{
		Success: true,
		Message: "Started " + lowerFirst(name),
		Task:    name,
	})
}

// fetchDataTask loads the mock data set symbol by symbol, then persists
// the snapshot to SQLite and the dated Parquet archive.
func (s *Server) fetchDataTask(rep *task.Reporter, maxStocks int, useMock bool) error {
	rep.Set(0, "Loading NASDAQ symbols...")
	symbols, err := stockdata.LoadSymbols(filepath.Join(s.dataDir, stockdata.SymbolsFile))
	if err != nil {
		return err
	}
	if maxStocks < len(symbols) {
		symbols = symbols[:maxStocks]
	}

	all, err := stockdata.LoadRecords(filepath.Join(s.dataDir, stockdata.MockDataFile))
	if err != nil {
		return err
	}

	rep.SetTotal(len(symbols) + 10)
	rep.Set(10, fmt.Sprintf("Fetching stock data for %d symbols...", len(symbols)))

	records := make([]domain.StockRecord, 0, len(symbols))
	for i, sym := range symbols {
		records = append(records, stockdata.FindRecord(all, sym))
		if useMock {
			rep.Set(10+i, fmt.Sprintf("Generating mock data (%d/%d)", i+1, len(symbols)))
		} else {
			rep.Set(10+i, fmt.Sprintf("Fetching %s (%d/%d)", sym, i+1, len(symbols)))
		}
	}

	rep.Message("Saving data to cache...")
	ctx := context.Background()
	if err := s.snapshots.Replace(ctx, records); err != nil {
		return err
	}
	if err := s.archive.WriteSnapshot(time.Now().Format("2006-01-02"), records); err != nil {
		// The SQLite snapshot is authoritative; a failed archive write is
		// logged, not fatal.
		s.log.Warn("writing snapshot archive", "error", err)
	}

	rep.Message("Data fetching complete!")
	return nil
}

// recommendationsTask loads the current stock set and asks the engine
// for a report. The SQLite snapshot is preferred; the bundled CSV is the
// fallback when no fetch has happened yet.
func (s *Server) recommendationsTask(rep *task.Reporter) error {
	ctx := context.Background()

	rep.Set(10, "Loading NASDAQ data...")
	records, err := s.snapshots.All(ctx)
	if err != nil || len(records) == 0 {
		records, err = stockdata.LoadRecords(filepath.Join(s.dataDir, stockdata.MockDataFile))
		if err != nil {
			return fmt.Errorf("no stock data available: %w", err)
		}
	}

	rep.Set(40, fmt.Sprintf("Analyzing %d companies with AI...", len(records)))
	name, err := s.engine.Analyze(ctx, records)
	if err != nil {
		return err
	}

	rep.Message(fmt.Sprintf("Analysis complete! Recommendations saved to %s", name))
	return nil
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.runner.Status())
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	files, err := s.reports.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error retrieving results: %v", err))
		return
	}
	if files == nil {
		files = []domain.ResultFile{}
	}
	writeJSON(w, ResultsResponse{Files: files})
}

func (s *Server) handleViewRecommendation(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	content, meta, err := s.reports.Read(filename)
	if err != nil {
		if errors.Is(err, recommend.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error reading file: %v", err))
		return
	}

	writeJSON(w, ViewResponse{Success: true, Content: content, Metadata: &meta})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	path, err := s.reports.Path(filename)
	if err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

// ---------------------------------------------------------------------------
// Stock data
// ---------------------------------------------------------------------------

func (s *Server) handleMockData(w http.ResponseWriter, r *http.Request) {
	records, err := stockdata.LoadRecords(filepath.Join(s.dataDir, stockdata.MockDataFile))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error loading mock data: %v", err))
		return
	}
	writeStocks(w, records)
}

// handleStocks serves the fetched SQLite snapshot, falling back to the
// bundled CSV when nothing has been fetched yet.
func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	records, err := s.snapshots.All(r.Context())
	if err != nil {
		s.log.Warn("reading snapshot store", "error", err)
	}
	if len(records) == 0 {
		records, err = stockdata.LoadRecords(filepath.Join(s.dataDir, stockdata.MockDataFile))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error loading stock data: %v", err))
			return
		}
	}
	writeStocks(w, records)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	dates, err := s.archive.ListSnapshots()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, SnapshotsResponse{Dates: dates})
}

func writeStocks(w http.ResponseWriter, records []domain.StockRecord) {
	if records == nil {
		records = []domain.StockRecord{}
	}
	writeJSON(w, StocksResponse{Success: true, Stocks: records, Count: len(records)})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}
