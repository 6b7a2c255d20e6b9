package output

// Output formats accepted by --output.
const (
	FormatText  = "text"
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// Table headers. Keep these as the single source of truth; all writers use them.
const (
	ClustersHeader        = "genome,cluster"
	RepresentativesHeader = "cluster,genome,size"
	GeneTPMHeader         = "Gene\tTPM"
)

// Artifact keys written by rnaseqkit-select.
const (
	KeyDistanceMatrix     = "distance_matrix.csv"
	KeySelected           = "selected_genomes.txt"
	KeyClusters           = "clusters.csv"
	KeyRepresentatives    = "representatives.csv"
	KeyRepresentativeList = "representatives.txt"
	KeyLinkage            = "linkage.nwk"
	KeyManifest           = "manifest.json"
)

// ArtifactKeys lists every artifact key in the order a full run writes them.
var ArtifactKeys = []string{
	KeyDistanceMatrix, KeySelected, KeyClusters, KeyRepresentatives,
	KeyRepresentativeList, KeyLinkage, KeyManifest,
}
