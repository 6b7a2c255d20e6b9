// cmd/rnaseqkit-select/main.go
package main

import (
	"rnaseqkit/internal/appshell"
	"rnaseqkit/internal/selectapp"
)

func main() { appshell.Main(selectapp.RunContext) }
