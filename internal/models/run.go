package models

import (
	"sync"
	"time"
)

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "RUNNING"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

// RunHandle is the observable handle for a detached pipeline run. The
// triggering caller gets it back immediately; tests and status endpoints
// can wait on Done or poll Snapshot.
type RunHandle struct {
	ID        string    `json:"id"`
	FeedURL   string    `json:"feed_url"`
	StartedAt time.Time `json:"started_at"`

	mu         sync.Mutex
	status     RunStatus
	finishedAt time.Time
	summary    *PipelineSummary
	err        error
	done       chan struct{}
}

// NewRunHandle creates a handle in the RUNNING state.
func NewRunHandle(id, feedURL string) *RunHandle {
	return &RunHandle{
		ID:        id,
		FeedURL:   feedURL,
		StartedAt: time.Now(),
		status:    RunRunning,
		done:      make(chan struct{}),
	}
}

// Finish records the run outcome and releases waiters. Safe to call once.
func (r *RunHandle) Finish(summary *PipelineSummary, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != RunRunning {
		return
	}
	r.finishedAt = time.Now()
	r.summary = summary
	r.err = err
	if err != nil {
		r.status = RunFailed
	} else {
		r.status = RunCompleted
	}
	close(r.done)
}

// Done returns a channel closed when the run finishes.
func (r *RunHandle) Done() <-chan struct{} {
	return r.done
}

// RunSnapshot is a point-in-time copy of a run's state.
type RunSnapshot struct {
	ID         string           `json:"id"`
	FeedURL    string           `json:"feed_url"`
	Status     RunStatus        `json:"status"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at,omitempty"`
	Summary    *PipelineSummary `json:"summary,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Snapshot returns a copy of the run's current state.
func (r *RunHandle) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := RunSnapshot{
		ID:         r.ID,
		FeedURL:    r.FeedURL,
		Status:     r.status,
		StartedAt:  r.StartedAt,
		FinishedAt: r.finishedAt,
		Summary:    r.summary,
	}
	if r.err != nil {
		snap.Error = r.err.Error()
	}
	return snap
}
