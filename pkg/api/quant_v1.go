// pkg/api/quant_v1.go
package api

// GeneTPMV1 is the JSON/JSONL schema of one aggregated (orthogroup, gene) row.
type GeneTPMV1 struct {
	Orthogroup      string  `json:"orthogroup"`
	Gene            string  `json:"gene"`
	NumReads        float64 `json:"num_reads"`
	EffectiveLength float64 `json:"effective_length"`
	TPM             float64 `json:"tpm"`
}

// StrandV1 is the JSON schema of a strandedness call.
type StrandV1 struct {
	Code    int     `json:"code"` // featureCounts -s value
	Forward float64 `json:"forward"`
	Reverse float64 `json:"reverse"`
	Paired  bool    `json:"paired"`
	Source  string  `json:"source,omitempty"`
}
