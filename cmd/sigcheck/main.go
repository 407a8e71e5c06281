package main

import (
	"os"

	"github.com/sigcheck/sigcheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
