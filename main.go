// Package main is the entrypoint for the codemetrics CLI.
package main

import (
	"fmt"
	"os"

	"github.com/quantifio/codemetrics/cmd"
	"github.com/quantifio/codemetrics/internal/iocache"
)

func main() {
	os.Exit(run())
}

// run exists so the iocache defer fires before os.Exit.
func run() int {
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		return 1
	}
	return 0
}
