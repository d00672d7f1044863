package api

// BatchSummary is the outcome of one run over all submissions.
type BatchSummary struct {
	RunID string `json:"run_id"`

	Submissions int `json:"submissions"`
	Tasks       int `json:"tasks"`
	Answers     int `json:"answers"`

	// OpenErrors counts answers whose artifact could not be read.
	OpenErrors int64 `json:"open_errors"`
	// ExecErrors counts test cases whose process could not be run.
	ExecErrors int64 `json:"exec_errors"`

	StartTime   string `json:"start_time"`
	FinishTime  string `json:"finish_time"`
	TotalTimeMs int64  `json:"total_time_ms"`
}
