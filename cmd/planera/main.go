package main

import (
	"os"

	"github.com/jalvemo/planera/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
