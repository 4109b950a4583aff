// Package task provides the server-global background task slot. At most
// one task runs at a time; its progress is exposed as a pollable
// snapshot that survives completion until the next task starts.
package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"stockscope/internal/domain"
)

// ErrTaskRunning is returned by Start when the slot is occupied. The
// accompanying snapshot lets callers report the live task instead of
// failing.
var ErrTaskRunning = errors.New("another task is already running")

// Fn is the body of a background task. It reports progress through the
// Reporter and returns an error to mark the task failed.
type Fn func(r *Reporter) error

// Runner owns the single task slot.
type Runner struct {
	mu      sync.Mutex
	info    domain.TaskInfo
	running bool
	log     *slog.Logger
}

// NewRunner creates an idle Runner.
func NewRunner(log *slog.Logger) *Runner {
	return &Runner{
		info: domain.TaskInfo{Complete: true},
		log:  log,
	}
}

// Start claims the slot and runs fn on a new goroutine. When the slot is
// occupied it returns the live snapshot and ErrTaskRunning; the caller
// is expected to surface that snapshot, not treat it as a hard failure.
func (r *Runner) Start(name string, fn Fn) (domain.TaskInfo, error) {
	r.mu.Lock()
	if r.running {
		info := r.info
		r.mu.Unlock()
		return info, ErrTaskRunning
	}
	r.running = true
	r.info = domain.TaskInfo{
		Task:    name,
		Total:   100,
		Message: "Initializing...",
	}
	info := r.info
	r.mu.Unlock()

	r.log.Info("task started", "task", name)
	go r.run(name, fn)

	return info, nil
}

func (r *Runner) run(name string, fn Fn) {
	defer func() {
		if v := recover(); v != nil {
			r.finish(name, fmt.Errorf("panic: %v", v))
		}
	}()
	r.finish(name, fn(&Reporter{r: r}))
}

// finish releases the slot. The final snapshot stays pollable: the
// message reports either success or the error with the well-known
// prefix.
func (r *Runner) finish(name string, err error) {
	r.mu.Lock()
	r.running = false
	r.info.Task = ""
	r.info.Complete = true
	if err != nil {
		r.info.Message = domain.TaskErrorPrefix + err.Error()
	} else {
		r.info.Progress = r.info.Total
	}
	msg := r.info.Message
	r.mu.Unlock()

	if err != nil {
		r.log.Warn("task failed", "task", name, "error", err)
		return
	}
	r.log.Info("task complete", "task", name, "message", msg)
}

// Status returns the current snapshot: the live task when one is
// running, otherwise the completed state of the last run.
func (r *Runner) Status() domain.TaskInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

// Running reports whether the slot is occupied.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Reporter lets a task body publish progress without touching the
// Runner's lock discipline.
type Reporter struct {
	r *Runner
}

// SetTotal adjusts the number of progress units for the running task.
func (p *Reporter) SetTotal(total int) {
	p.r.mu.Lock()
	p.r.info.Total = total
	p.r.mu.Unlock()
}

// Set records absolute progress with a status message.
func (p *Reporter) Set(progress int, message string) {
	p.r.mu.Lock()
	p.r.info.Progress = progress
	p.r.info.Message = message
	p.r.mu.Unlock()
}

// Message updates the status message without moving progress.
func (p *Reporter) Message(message string) {
	p.r.mu.Lock()
	p.r.info.Message = message
	p.r.mu.Unlock()
}
