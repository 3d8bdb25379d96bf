package main

import (
	"os"

	"github.com/absfs/staticcompress/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
