// Package recommend generates AI investment recommendation reports from
// stock summary statistics and manages the results directory they are
// written to.
package recommend

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"stockscope/internal/domain"
)

// ErrNotFound is returned when a requested report does not exist.
var ErrNotFound = fmt.Errorf("file not found")

// Store manages generated report files in a single results directory.
type Store struct {
	Dir string
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Write saves a recommendation report for the given date and returns the
// filename. The report carries the same header line the original files
// had, so existing tooling keeps parsing them.
func (s *Store) Write(date time.Time, content string) (string, error) {
	day := date.Format("2006-01-02")
	name := fmt.Sprintf("stock_recommendations_%s.txt", day)
	body := fmt.Sprintf("Stock Recommendations (%s):\n\n%s", day, content)
	if err := os.WriteFile(filepath.Join(s.Dir, name), []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", name, err)
	}
	return name, nil
}

// List returns metadata for every report in the results directory,
// newest first.
func (s *Store) List() ([]domain.ResultFile, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []domain.ResultFile
	for _, e := range entries {
		if e.IsDir() || !isReportName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.ResultFile{
			Name: e.Name(),
			Date: info.ModTime(),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Date.After(files[j].Date)
	})
	return files, nil
}

// Read returns a report's content together with its metadata.
func (s *Store) Read(filename string) (string, domain.ResultFile, error) {
	path, err := s.Path(filename)
	if err != nil {
		return "", domain.ResultFile{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", domain.ResultFile{}, ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.ResultFile{}, fmt.Errorf("reading report %s: %w", filename, err)
	}

	return string(data), domain.ResultFile{
		Name: filename,
		Date: info.ModTime(),
		Size: info.Size(),
	}, nil
}

// Path validates a report filename and returns its absolute location.
// Names containing path separators or traversal are rejected.
func (s *Store) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", ErrNotFound
	}
	return filepath.Join(s.Dir, filename), nil
}

// isReportName accepts the report extensions the backend generates.
func isReportName(name string) bool {
	return strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, ".md")
}
