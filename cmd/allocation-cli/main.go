package main

import (
	"os"

	"recruiter-allocation/cmd/allocation-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
