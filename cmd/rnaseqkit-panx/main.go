// cmd/rnaseqkit-panx/main.go
package main

import (
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/panxapp"
)

func main() { appshell.Main(panxapp.RunContext) }
