// cmd/rnaseqkit-partition/main.go
package main

import (
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/partitionapp"
)

func main() { appshell.Main(partitionapp.RunContext) }
