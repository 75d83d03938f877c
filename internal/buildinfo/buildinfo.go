// Package buildinfo exposes build-time metadata stamped via -ldflags.
package buildinfo

import (
	"fmt"
	"io"
)

// Populated at build time, e.g.:
//
//	go build -ldflags "-X .../internal/buildinfo.Version=1.2.0 \
//	  -X .../internal/buildinfo.Date=2026-01-15 \
//	  -X .../internal/buildinfo.Commit=abc1234"
var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build stamp to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
