package blob

import (
	"context"
	"fmt"
	"os"
)

// Config selects and configures a driver.
type Config struct {
	Driver Driver // fs (default) | s3 | memory
	Dir    string // fs root
	S3     S3Config
}

// Open builds the Store named by cfg. RNASEQKIT_ARTIFACTS_DRIVER overrides
// an empty cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	d := cfg.Driver
	if d == "" {
		d = Driver(os.Getenv("RNASEQKIT_ARTIFACTS_DRIVER"))
	}
	if d == "" {
		d = DriverFilesystem
	}
	switch d {
	case DriverFilesystem:
		return NewFilesystem(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown artifacts driver %q (want fs, s3 or memory)", d)
	}
}
