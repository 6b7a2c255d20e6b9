// Package workflow drives the per-experiment RNA-seq runs: fetch the reads
// of every sample, write the experiment's pipeline config, wait for the
// downloads to settle, then unlock and run Snakemake inside the container.
//
// External programs go through a Runner so tests and --dry-run never touch
// the network or the container runtime.
package workflow
