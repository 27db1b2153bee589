package orchestrator

import (
	"sync"

	sharedtypes "newsdash/shared/types"
)

// stateManager holds the scheduler state with thread-safe access
type stateManager struct {
	mu sync.RWMutex

	current    sharedtypes.State
	currentRun string

	// Finished runs, newest last (ring buffer)
	runs    []sharedtypes.RunSummary
	maxRuns int
}

func newStateManager() *stateManager {
	return &stateManager{
		current: sharedtypes.StateIdle,
		runs:    make([]sharedtypes.RunSummary, 0),
		maxRuns: 20,
	}
}

func (m *stateManager) begin(runID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = sharedtypes.StateFetching
	m.currentRun = runID
}

func (m *stateManager) finish(res RunResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := sharedtypes.RunSummary{
		RunID:      res.RunID,
		Trigger:    string(res.Trigger),
		StartedAt:  res.StartedAt,
		FinishedAt: res.StartedAt.Add(res.Duration),
		Articles:   len(res.Articles),
	}
	if res.Err != nil {
		summary.Error = res.Err.Error()
	}

	m.runs = append(m.runs, summary)
	if len(m.runs) > m.maxRuns {
		m.runs = m.runs[len(m.runs)-m.maxRuns:]
	}
	m.current = sharedtypes.StateIdle
	m.currentRun = ""
}

// snapshot returns a copy of the current state
func (m *stateManager) snapshot() sharedtypes.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sharedtypes.StatusResponse{
		State:        m.current,
		CurrentRunID: m.currentRun,
		Runs:         append([]sharedtypes.RunSummary{}, m.runs...),
	}
}
