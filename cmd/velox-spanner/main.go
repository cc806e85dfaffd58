// Command velox-spanner checks Spanner metadata snapshots exported by a
// velox mapping phase.
//
//	velox-spanner validate music.yaml songs.yaml
//	velox-spanner describe --verbose music.yaml
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
