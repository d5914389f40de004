//go:build !js

package main

import (
	"os"

	"github.com/seqsense/orbitviewer/internal/log"
)

func main() {
	log.Error("the viewer runs in a browser; build it with GOOS=js GOARCH=wasm")
	os.Exit(1)
}
