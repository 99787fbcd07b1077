// cmd/hitac-filter/main.go
package main

import (
	"hitac/internal/appshell"
	"hitac/internal/filterapp"
)

func main() { appshell.Main(filterapp.RunContext) }
