package types

import "time"

// State represents the ingestion scheduler state machine
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
)

// RunSummary describes one finished fetch-all run
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Articles   int       `json:"articles"`
	Error      string    `json:"error,omitempty"`
}

// StatusResponse is the JSON response for GET /api/fetch/status
type StatusResponse struct {
	State        State        `json:"state"`
	CurrentRunID string       `json:"current_run_id,omitempty"`
	Schedule     string       `json:"schedule,omitempty"`
	NextRun      *time.Time   `json:"next_run,omitempty"`
	Runs         []RunSummary `json:"runs"`
}
