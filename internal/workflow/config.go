// internal/workflow/config.go
package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ContainerRoot is where the project root is bound inside the container.
const ContainerRoot = "/mnt/project_root"

// Fixed pipeline parameters.
const (
	ReferencePath           = "GCF_000005845_2_ASM584v2_genomic#0#NC_000913.3"
	CentrifugeOrganism      = "Escherichia coli"
	CentrifugeMinPercentage = 30.0
	FastpMinKeptPercentage  = 75.0
)

// SampleConfig is one entry of the samples map.
type SampleConfig struct {
	R1        string `yaml:"r1"`
	R2        string `yaml:"r2,omitempty"`
	Condition string `yaml:"condition"`
}

// DESeq2 holds the differential-expression contrasts (none by default).
type DESeq2 struct {
	Contrasts []string `yaml:"contrasts"`
}

// ExperimentConfig is the Snakemake --configfile of one experiment.
type ExperimentConfig struct {
	Experiment              string                  `yaml:"experiment"`
	Samples                 map[string]SampleConfig `yaml:"samples"`
	DESeq2                  DESeq2                  `yaml:"deseq2"`
	VGIndex                 string                  `yaml:"vg_index"`
	Ref                     string                  `yaml:"ref"`
	AnnotationGFF           string                  `yaml:"annotation_gff"`
	AnnotationBED           string                  `yaml:"annotation_bed"`
	CentrifugeIndexPath     string                  `yaml:"centrifuge_index_path"`
	ScriptsDir              string                  `yaml:"scripts_dir"`
	CentrifugeOrganism      string                  `yaml:"centrifuge_organism"`
	CentrifugeMinPercentage float64                 `yaml:"centrifuge_min_percentage"`
	FastpMinKeptPercentage  float64                 `yaml:"fastp_min_kept_percentage"`
}

// ContainerPath maps a host path under projectRoot to its path inside the container.
func ContainerPath(projectRoot, host string) (string, error) {
	rel, err := filepath.Rel(projectRoot, host)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(ContainerRoot, rel)), nil
}

// WriteConfig writes cfg as YAML and fsyncs it before returning, so the
// container sees the complete file.
func WriteConfig(path string, cfg ExperimentConfig) error {
	if cfg.DESeq2.Contrasts == nil {
		cfg.DESeq2.Contrasts = []string{}
	}
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", cfg.Experiment, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// readConfig decodes a config written by WriteConfig.
func readConfig(path string) (ExperimentConfig, error) {
	var cfg ExperimentConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
