package main

import (
	"os"

	"github.com/aheeb/transcriptor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
