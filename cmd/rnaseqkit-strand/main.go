// cmd/rnaseqkit-strand/main.go
package main

import (
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/strandapp"
)

func main() { appshell.Main(strandapp.RunContext) }
