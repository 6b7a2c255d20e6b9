// pkg/api/selection_v1.go
package api

// SelectionV1 is the stable JSON schema of a rnaseqkit-select run summary.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SelectionV1 struct {
	RunID           string             `json:"run_id"`
	Version         string             `json:"version"`
	Mode            string             `json:"mode"` // "farthest" | "cluster" | "both"
	Reference       string             `json:"reference"`
	Genomes         int                `json:"genomes"`
	MissingPairs    int                `json:"missing_pairs"`
	K               int                `json:"k,omitempty"`
	Threshold       float64            `json:"threshold,omitempty"`
	Excluded        []string           `json:"excluded,omitempty"`
	Selected        []string           `json:"selected,omitempty"`
	Clusters        []ClusterMemberV1  `json:"clusters,omitempty"`
	Representatives []RepresentativeV1 `json:"representatives,omitempty"`
	Artifacts       []ArtifactV1       `json:"artifacts,omitempty"`
}

// ClusterMemberV1 is one row of the final cluster table.
type ClusterMemberV1 struct {
	Genome    string `json:"genome"`
	ClusterID int    `json:"cluster"`
}

// RepresentativeV1 is the chosen genome of one cluster.
type RepresentativeV1 struct {
	ClusterID int    `json:"cluster"`
	Genome    string `json:"genome"`
	Size      int    `json:"size"`
}

// ArtifactV1 describes a file written to the artifact store.
type ArtifactV1 struct {
	Key    string `json:"key"`
	Size   int64  `json:"size_bytes"`
	SHA256 string `json:"sha256,omitempty"`
}
