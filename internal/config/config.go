// Package config loads the optional TOML file shared by the rnaseqkit tools.
//
// Every field is optional. Pointer fields distinguish "absent" from a zero
// value so that command-line flags, config values and built-in defaults can
// be layered (flag > config > default).
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// File mirrors the TOML layout.
type File struct {
	Select    Select    `toml:"select"`
	Run       Run       `toml:"run"`
	Artifacts Artifacts `toml:"artifacts"`
	Catalog   Catalog   `toml:"catalog"`
}

// Select configures rnaseqkit-select.
type Select struct {
	Mode            *string  `toml:"mode"`
	Count           *int     `toml:"count"`
	Threshold       *float64 `toml:"threshold"`
	DefaultDistance *float64 `toml:"default_distance"`
	Reference       *string  `toml:"reference"`
	Markers         []string `toml:"markers"`
	Exclude         []string `toml:"exclude"`
}

// Run configures rnaseqkit-run.
type Run struct {
	ProjectRoot *string   `toml:"project_root"`
	Image       *string   `toml:"image"`
	Threads     *int      `toml:"threads"`
	Cores       *int      `toml:"cores"`
	Pause       *Duration `toml:"pause"`
	WaitTimeout *Duration `toml:"wait_timeout"`
	LogDir      *string   `toml:"log_dir"`
	Finished    *string   `toml:"finished"`
}

// Artifacts selects the blob store driver.
type Artifacts struct {
	Driver string `toml:"driver"`
	Dir    string `toml:"dir"`
	S3     S3     `toml:"s3"`
}

// S3 holds S3 / MinIO connection settings.
type S3 struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

// Catalog names the results database.
type Catalog struct {
	DSN string `toml:"dsn"`
}

// Duration decodes TOML strings such as "5s" or "2m30s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Load decodes path. Unknown keys are an error so typos do not pass silently.
func Load(path string) (File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return File{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return f, nil
}
