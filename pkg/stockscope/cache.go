package stockscope

import (
	"context"
	"fmt"
	"net/url"
)

// FetchContent loads a report body plus metadata, at most once per
// distinct filename for the lifetime of the cache.
//
// A cached entry is returned without any network call. A concurrent
// fetch for the same filename yields ErrFetchInFlight and leaves the
// original request to populate the cache; fetches for different
// filenames proceed independently. A failed fetch is not cached, so a
// later call can retry.
func (c *Client) FetchContent(ctx context.Context, filename string) (*ContentEntry, error) {
	if filename == "" {
		return nil, ErrNoFilename
	}

	c.mu.Lock()
	if entry, ok := c.content[filename]; ok {
		c.mu.Unlock()
		return entry, nil
	}
	if _, ok := c.inflight[filename]; ok {
		c.mu.Unlock()
		return nil, ErrFetchInFlight
	}
	c.inflight[filename] = struct{}{}
	c.mu.Unlock()

	entry, err := c.fetchEntry(ctx, filename)

	c.mu.Lock()
	delete(c.inflight, filename)
	if err == nil {
		c.content[filename] = entry
	}
	c.mu.Unlock()

	return entry, err
}

// ClearCache resets every cached entry; the next FetchContent per
// filename hits the network again.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.content = make(map[string]*ContentEntry)
	c.mu.Unlock()
}

// fetchEntry performs the actual content request and the best-effort
// metadata enrichment.
func (c *Client) fetchEntry(ctx context.Context, filename string) (*ContentEntry, error) {
	var view struct {
		Success bool   `json:"success"`
		Content string `json:"content"`
		Message string `json:"message"`
	}
	path := "/api/view-recommendation/" + url.PathEscape(filename)
	if err := c.getJSON(ctx, path, &view); err != nil {
		return nil, err
	}
	if !view.Success {
		if view.Message != "" {
			return nil, fmt.Errorf("loading %s: %s", filename, view.Message)
		}
		return nil, fmt.Errorf("loading %s failed", filename)
	}

	entry := &ContentEntry{Content: view.Content}

	// Metadata comes from the listing endpoint; losing it degrades the
	// entry, it does not fail the fetch.
	if files, err := c.Results(ctx); err == nil {
		for i := range files {
			if files[i].Name == filename {
				meta := files[i]
				entry.Metadata = &meta
				break
			}
		}
	}

	return entry, nil
}
