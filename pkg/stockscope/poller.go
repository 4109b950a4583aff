package stockscope

import (
	"context"
	"errors"
	"strings"
	"time"
)

// taskErrorPrefix marks a completion message that reports a failure.
const taskErrorPrefix = "Error: "

// ErrContentUnavailable is returned when a completed task's report could
// not be loaded within the bounded retry envelope.
var ErrContentUnavailable = errors.New("failed to load recommendation after multiple attempts")

// AwaitTask polls the task status endpoint until the server reports
// completion, invoking onProgress (if non-nil) after every poll. For a
// successful task it then loads the newest report, retrying up to
// ContentRetries times with RetryDelay between attempts: the results
// file may not be flushed to disk at the instant the task reports done.
//
// Cancelling ctx stops polling immediately; no further onProgress calls
// are made after that. There is no overall timeout: an unfinished task
// is polled indefinitely.
func (c *Client) AwaitTask(ctx context.Context, onProgress func(TaskInfo)) (*TaskResult, error) {
	var info TaskInfo
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.PollInterval):
		}

		var err error
		info, err = c.TaskStatus(ctx)
		if err != nil {
			// A single missed poll is not fatal; the loop just tries again.
			continue
		}
		if onProgress != nil {
			onProgress(info)
		}
		if info.Complete {
			break
		}
	}

	if strings.HasPrefix(info.Message, taskErrorPrefix) {
		return nil, errors.New(strings.TrimPrefix(info.Message, taskErrorPrefix))
	}

	entry, filename, err := c.loadNewestResult(ctx)
	if err != nil {
		return nil, err
	}
	return &TaskResult{Info: info, Filename: filename, Entry: entry}, nil
}

// loadNewestResult fetches the most recent report with bounded retries.
func (c *Client) loadNewestResult(ctx context.Context) (*ContentEntry, string, error) {
	for attempt := 0; attempt < c.ContentRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(c.RetryDelay):
			}
		}

		files, err := c.Results(ctx)
		if err != nil || len(files) == 0 {
			continue
		}

		entry, err := c.FetchContent(ctx, files[0].Name)
		if err != nil {
			continue
		}
		return entry, files[0].Name, nil
	}
	return nil, "", ErrContentUnavailable
}
