// cmd/rnaseqkit-run/main.go
package main

import (
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/runapp"
)

func main() { appshell.Main(runapp.RunContext) }
