package main

import (
	"os"

	"github.com/codex-rotate/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Execute already printed the error
		os.Exit(1)
	}
}
