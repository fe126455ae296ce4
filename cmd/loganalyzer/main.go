// cmd/loganalyzer/main.go
package main

import "log-analyzer/internal/cmd"

func main() {
	cmd.Execute()
}
