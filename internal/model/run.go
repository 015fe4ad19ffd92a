package model

import "time"

// RunStatus tracks a pipeline run through its stages.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusDeduping RunStatus = "deduping"
	RunStatusGating   RunStatus = "gating"
	RunStatusScoring  RunStatus = "scoring"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunStats summarizes one pipeline run.
type RunStats struct {
	Input        int            `json:"input"`
	Merged       int            `json:"merged"`
	Rejected     int            `json:"rejected"`
	Disqualified int            `json:"disqualified"`
	Output       int            `json:"output"`
	Grades       map[string]int `json:"grades,omitempty"`
	Roles        map[string]int `json:"roles,omitempty"`
	DurationMS   int64          `json:"duration_ms"`
}

// Run is one execution of the pipeline over an input batch.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Status    RunStatus `json:"status"`
	Stats     *RunStats `json:"stats,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
