package main

import (
	"os"

	"github.com/marmos91/exportctl/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
