package schema

import "time"

// RunRecord represents one recorded report execution in the runs store.
type RunRecord struct {
	ID          int64     `json:"id"`
	Command     string    `json:"command"`
	RepoPath    string    `json:"repo_path"`
	SCM         string    `json:"scm"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	RowCount    int       `json:"row_count"`
	DurationMS  int64     `json:"duration_ms"`
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// Run statuses recorded in the runs store. A run stays started until the
// command finalizes it, so interrupted runs remain visible.
const (
	RunStatusStarted = "started"
	RunStatusOK      = "ok"
	RunStatusFailed  = "failed"
)

// HotSpotRecord represents one ranked hot-spot row persisted for a run.
type HotSpotRecord struct {
	RunID           int64     `json:"run_id"`
	Path            string    `json:"path"`
	Language        string    `json:"language"`
	Code            int32     `json:"code"`
	Changes         int32     `json:"changes"`
	ChangesScore    float64   `json:"changes_score"`
	ComplexityScore float64   `json:"complexity_score"`
	Score           float64   `json:"score"`
	CreatedAt       time.Time `json:"created_at"`
}
