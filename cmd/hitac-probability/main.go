// cmd/hitac-probability/main.go
package main

import (
	"hitac/internal/appshell"
	"hitac/internal/probabilityapp"
)

func main() { appshell.Main(probabilityapp.RunContext) }
