// pkg/api/workflow_v1.go
package api

// ExperimentV1 is one JSONL line of rnaseqkit-run output.
type ExperimentV1 struct {
	RunID      string   `json:"run_id"`
	GSE        string   `json:"gse"`
	Status     string   `json:"status"` // "done" | "skipped" | "failed"
	Samples    []string `json:"samples,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
	Config     string   `json:"config,omitempty"`
	Detail     string   `json:"detail,omitempty"`
}
