// cmd/rnaseqkit-tpm/main.go
package main

import (
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/tpmapp"
)

func main() { appshell.Main(tpmapp.RunContext) }
