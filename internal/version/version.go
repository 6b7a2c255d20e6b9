// internal/version/version.go
package version

// Version is overridden at build time with -ldflags "-X rnaseqkit/internal/version.Version=...".
var Version = "0.4.0"
