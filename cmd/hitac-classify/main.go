// cmd/hitac-classify/main.go
package main

import (
	"hitac/internal/appshell"
	"hitac/internal/classifyapp"
)

func main() { appshell.Main(classifyapp.RunContext) }
