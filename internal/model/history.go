package model

import "time"

// Run is one recorded crawl run.
type Run struct {
	ID         int64      `json:"id"`
	StartURL   string     `json:"start_url"`
	OutputPath string     `json:"output_path"`
	Limit      int        `json:"limit"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at,omitzero"`
	Records    int        `json:"records"`
	Pages      int        `json:"pages"`
	StopReason StopReason `json:"stop_reason,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Finished reports whether the run has completed, successfully or not.
func (r *Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Elapsed returns the wall time of a finished run, or zero.
func (r *Run) Elapsed() time.Duration {
	if !r.Finished() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Visit is one listing page fetched during a run.
type Visit struct {
	RunID      int64     `json:"run_id"`
	Seq        int       `json:"seq"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	Hash       string    `json:"hash"`
	Records    int       `json:"records"`
	NextURL    string    `json:"next_url,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}
