// Package writers turns domain results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (text/TSV, JSON, JSONL).
//   - Core packages stay domain-only; apps stay orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
