package main

import (
	"os"

	"github.com/arthur-debert/buildenv/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCmd()))
}
