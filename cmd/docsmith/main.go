package main

import (
	"fmt"
	"os"

	"github.com/docsmith/docsmith/internal/cli"
)

// main is the entry point for the docsmith command.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, "docsmith: %v\n", executionError)
		os.Exit(1)
	}
}
