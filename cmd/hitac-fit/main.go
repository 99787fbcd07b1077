// cmd/hitac-fit/main.go
package main

import (
	"hitac/internal/appshell"
	"hitac/internal/fitapp"
)

func main() { appshell.Main(fitapp.RunContext) }
