package main

import (
	"os"

	"github.com/usman766/directus-crud/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
