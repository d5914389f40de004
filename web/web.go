// Package web holds the page assets shared by the viewer and its service
// worker.
package web

import (
	_ "embed"
	"net/url"
)

const (
	IndexPath  = "index.html"
	ExecPath   = "wasm_exec.js"
	WasmPath   = "orbitviewer.wasm"
	WorkerPath = "sw.js"

	// CacheParam is the query parameter of the worker script naming the cache.
	CacheParam = "cache"
	// ReadyFunc is the worker global called by the wasm binary with its
	// install and fetch handlers.
	ReadyFunc = "orbitviewerWorkerReady"
)

// Worker is the service worker script starting WasmPath in worker mode.
//
//go:embed sw.js
var Worker []byte

// Shell returns the paths the page loads before the viewer starts.
func Shell() []string {
	return []string{
		"./",
		"./" + IndexPath,
		"./" + ExecPath,
		"./" + WasmPath,
		"./" + WorkerPath,
	}
}

// WorkerURL returns the script URL registering the worker on the named cache.
func WorkerURL(cacheName string) string {
	return "./" + WorkerPath + "?" + url.Values{CacheParam: {cacheName}}.Encode()
}
